package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "picfeed"

func tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// TraceFeed starts a span around a feed page query
func TraceFeed(ctx context.Context, feed string, limit, offset int) (context.Context, trace.Span) {
	return tracer().Start(ctx, "feed.list",
		trace.WithAttributes(
			attribute.String("feed.type", feed),
			attribute.Int("feed.limit", limit),
			attribute.Int("feed.offset", offset),
		),
	)
}

// TraceCreatePost starts a span around an upload and insert
func TraceCreatePost(ctx context.Context, userID, contentType string, size int64) (context.Context, trace.Span) {
	return tracer().Start(ctx, "post.create",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("image.content_type", contentType),
			attribute.Int64("image.size", size),
		),
	)
}

// TraceDeletePost starts a span around a post deletion
func TraceDeletePost(ctx context.Context, userID, postID string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "post.delete",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("post.id", postID),
		),
	)
}

// TraceSocial starts a span for like, comment and follow actions
func TraceSocial(ctx context.Context, action, targetType, targetID string) (context.Context, trace.Span) {
	return tracer().Start(ctx, "social."+action,
		trace.WithAttributes(
			attribute.String("social.action", action),
			attribute.String("social.target_type", targetType),
			attribute.String("social.target_id", targetID),
		),
	)
}

// EndSpan records err on span (if any) and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
