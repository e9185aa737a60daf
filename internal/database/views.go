package database

import "gorm.io/gorm"

// Aggregate views. Counts are derived with correlated subqueries on every
// read; nothing is stored or incrementally maintained.
var viewDefinitions = []struct {
	name string
	sql  string
}{
	{
		name: "post_stats",
		sql: `CREATE VIEW post_stats AS
SELECT p.id AS post_id,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comments_count
FROM posts p`,
	},
	{
		name: "user_stats",
		sql: `CREATE VIEW user_stats AS
SELECT u.id AS user_id,
	(SELECT COUNT(*) FROM posts p WHERE p.user_id = u.id) AS posts_count,
	(SELECT COUNT(*) FROM follows f WHERE f.following_id = u.id) AS followers_count,
	(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u.id) AS following_count
FROM users u`,
	},
}

// createViews drops and recreates the aggregate views so definition changes
// apply on the next migration
func createViews(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, v := range viewDefinitions {
			if err := tx.Exec("DROP VIEW IF EXISTS " + v.name).Error; err != nil {
				return err
			}
			if err := tx.Exec(v.sql).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
