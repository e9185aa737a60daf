// Package formatter renders posts, comments and profiles as terminal text.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/zfogg/picfeed/pkg/api"
	"github.com/zfogg/picfeed/pkg/store"
)

var (
	Bold  = color.New(color.Bold)
	Faint = color.New(color.Faint)
	Red   = color.New(color.FgRed)
	Cyan  = color.New(color.FgCyan)
)

// GridColumns is the width of the profile post grid
const GridColumns = 3

// RelativeTime renders t relative to now: "just now", "5m", "3h", "2d", then a date
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Count renders n with a pluralized noun, abbreviating thousands and millions
func Count(n int64, singular, plural string) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return Compact(n) + " " + noun
}

// Compact abbreviates large counts: 999, 1.2k, 12k, 3.4M
func Compact(n int64) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10_000:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1000)) + "k"
	case n < 1_000_000:
		return fmt.Sprintf("%dk", n/1000)
	default:
		return trimZero(fmt.Sprintf("%.1f", float64(n)/1_000_000)) + "M"
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// AuthorName prefers the display name, falling back to @username
func AuthorName(a api.Author) string {
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return "@" + a.Username
}

// Post renders a feed row: header, image, caption, counts and recent comments
func Post(p api.Post, now time.Time) string {
	var b strings.Builder

	Bold.Fprint(&b, AuthorName(p.Author))
	Faint.Fprintf(&b, " @%s · %s\n", p.Author.Username, RelativeTime(p.CreatedAt, now))
	Cyan.Fprintln(&b, p.ImageURL)
	if caption := p.CaptionText(); caption != "" {
		fmt.Fprintln(&b, caption)
	}

	heart := "♡"
	if p.IsLiked {
		heart = Red.Sprint("♥")
	}
	fmt.Fprintf(&b, "%s %s  %s\n", heart, Count(p.LikesCount, "like", "likes"), Count(p.CommentsCount, "comment", "comments"))

	recent := p.RecentComments
	if len(recent) > store.RecentCommentsShown {
		recent = recent[:store.RecentCommentsShown]
	}
	for _, c := range recent {
		b.WriteString(commentLine(c, now))
	}
	if p.CommentsCount > int64(len(recent)) {
		Faint.Fprintf(&b, "  view all %d comments\n", p.CommentsCount)
	}
	Faint.Fprintf(&b, "id: %s\n", p.ID)
	return b.String()
}

// Comments renders a full comment list, oldest first
func Comments(cs []api.Comment, now time.Time) string {
	if len(cs) == 0 {
		return Faint.Sprint("  No comments yet.\n")
	}
	var b strings.Builder
	for _, c := range cs {
		b.WriteString(commentLine(c, now))
	}
	return b.String()
}

func commentLine(c api.Comment, now time.Time) string {
	return fmt.Sprintf("  %s %s %s\n", Bold.Sprint("@"+c.Author.Username), c.Content, Faint.Sprintf("%s [%s]", RelativeTime(c.CreatedAt, now), c.ID))
}

// Profile renders a profile header
func Profile(p api.UserProfile) string {
	var b strings.Builder
	u := p.User
	Bold.Fprint(&b, AuthorName(api.Author{Username: u.Username, DisplayName: u.DisplayName}))
	Faint.Fprintf(&b, " @%s\n", u.Username)
	fmt.Fprintf(&b, "%s  %s  %s\n",
		Count(u.PostsCount, "post", "posts"),
		Count(u.FollowersCount, "follower", "followers"),
		Compact(u.FollowingCount)+" following",
	)
	switch {
	case p.IsOwnProfile:
		Faint.Fprintln(&b, "This is you")
	case p.IsFollowing:
		fmt.Fprintln(&b, "Following")
	}
	return b.String()
}

// Grid lays posts out GridColumns to a row, one cell per post
func Grid(posts []api.Post) [][]string {
	var rows [][]string
	for i := 0; i < len(posts); i += GridColumns {
		end := i + GridColumns
		if end > len(posts) {
			end = len(posts)
		}
		row := make([]string, 0, GridColumns)
		for _, p := range posts[i:end] {
			row = append(row, fmt.Sprintf("%s ♥%s 💬%s", shortID(p.ID), Compact(p.LikesCount), Compact(p.CommentsCount)))
		}
		rows = append(rows, row)
	}
	return rows
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// User renders a search result line
func User(u api.User) string {
	return fmt.Sprintf("%s %s  %s", Bold.Sprint("@"+u.Username), u.DisplayName, Faint.Sprint(Count(u.FollowersCount, "follower", "followers")))
}
