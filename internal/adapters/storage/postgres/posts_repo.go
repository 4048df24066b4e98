package postgres

import (
	"context"
	"database/sql"
	"strings"

	"dog-breed-social/internal/domain/posts"
	"dog-breed-social/internal/ports/backend"
)

type PostsRepo struct {
	db *sql.DB
}

func NewPostsRepo(db *sql.DB) *PostsRepo {
	return &PostsRepo{db: db}
}

const postColumns = `
	id, user_id, identify_record_id, description, breed_tags, topic_tags, media,
	likes_count, comments_count, status, created_at, updated_at`

func insertPost(ctx context.Context, ex execer, p posts.Post) error {
	_, err := ex.ExecContext(ctx, `
		INSERT INTO posts (`+postColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`,
		p.ID,
		p.UserID,
		nullString(p.IdentifyRecordID),
		p.Description,
		nonNilStrings(p.BreedTags),
		nonNilStrings(p.TopicTags),
		nonNilStrings(p.Media),
		p.LikesCount,
		p.CommentsCount,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func scanPost(row rowScanner) (posts.Post, error) {
	var (
		p        posts.Post
		recordID sql.NullString
		status   string
	)
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&recordID,
		&p.Description,
		array(&p.BreedTags),
		array(&p.TopicTags),
		array(&p.Media),
		&p.LikesCount,
		&p.CommentsCount,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return posts.Post{}, err
	}
	p.IdentifyRecordID = stringPtr(recordID)
	p.Status = posts.Status(status)
	return p, nil
}

func (r *PostsRepo) List(ctx context.Context, q posts.ListQuery) ([]posts.Post, error) {
	status := q.Status
	if status == "" {
		status = posts.StatusPublished
	}

	// $3/$4 vacíos no filtran.
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE status = $1
		  AND ($2 = '' OR description ILIKE '%' || $2 || '%')
		  AND ($3 = '' OR EXISTS (
				SELECT 1 FROM unnest(breed_tags || topic_tags) AS t(tag) WHERE lower(t.tag) = lower($3)
		  ))
		ORDER BY created_at DESC, id DESC
		OFFSET $4 LIMIT $5
	`, string(status), escapeLike(q.Search), strings.TrimSpace(q.Tag), q.Offset, q.Limit)
	if err != nil {
		return nil, mapErr(err, "")
	}
	defer rows.Close()

	out := make([]posts.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, mapErr(err, "")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "")
	}
	return out, nil
}

func (r *PostsRepo) Create(ctx context.Context, p posts.Post) error {
	return mapErr(insertPost(ctx, r.db, p), "")
}

func (r *PostsRepo) GetByID(ctx context.Context, id string) (posts.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		return posts.Post{}, mapErr(err, "post not found")
	}
	return p, nil
}

// SetLike inserta/borra en post_likes y recalcula likes_count en la misma transacción.
func (r *PostsRepo) SetLike(ctx context.Context, postID, userID string, liked bool) (count int, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, mapErr(err, "")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if liked {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING
		`, postID, userID)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	}
	if err != nil {
		return 0, mapErr(err, "post not found")
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE posts
		SET likes_count = (SELECT count(*) FROM post_likes WHERE post_id = $1)
		WHERE id = $1
		RETURNING likes_count
	`, postID).Scan(&count)
	if err != nil {
		return 0, mapErr(err, "post not found")
	}

	if err = tx.Commit(); err != nil {
		return 0, mapErr(err, "")
	}
	return count, nil
}

func (r *PostsRepo) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	var liked bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)
	`, postID, userID).Scan(&liked)
	if err != nil {
		return false, mapErr(err, "")
	}
	return liked, nil
}

func (r *PostsRepo) LikedBy(ctx context.Context, postIDs []string, userID string) (map[string]bool, error) {
	out := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT post_id FROM post_likes WHERE user_id = $1 AND post_id = ANY($2)
	`, userID, postIDs)
	if err != nil {
		return nil, mapErr(err, "")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, mapErr(err, "")
		}
		out[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "")
	}
	return out, nil
}

func (r *PostsRepo) CreateComment(ctx context.Context, c posts.Comment) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err, "")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, parent_id, content, likes_count, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.PostID, c.UserID, nullString(c.ParentID), c.Content, c.LikesCount, c.CreatedAt)
	if err != nil {
		return mapErr(err, "")
	}

	res, err := tx.ExecContext(ctx, `UPDATE posts SET comments_count = comments_count + 1 WHERE id = $1`, c.PostID)
	if err != nil {
		return mapErr(err, "")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = backend.NotFound("post not found")
		return err
	}

	if err = tx.Commit(); err != nil {
		return mapErr(err, "")
	}
	return nil
}

const commentColumns = `id, post_id, user_id, parent_id, content, likes_count, created_at`

func scanComment(row rowScanner) (posts.Comment, error) {
	var (
		c      posts.Comment
		parent sql.NullString
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &parent, &c.Content, &c.LikesCount, &c.CreatedAt); err != nil {
		return posts.Comment{}, err
	}
	c.ParentID = stringPtr(parent)
	return c, nil
}

func (r *PostsRepo) GetComment(ctx context.Context, id string) (posts.Comment, error) {
	c, err := scanComment(r.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return posts.Comment{}, mapErr(err, "comment not found")
	}
	return c, nil
}

func (r *PostsRepo) ListComments(ctx context.Context, postID string) ([]posts.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC, id ASC
	`, postID)
	if err != nil {
		return nil, mapErr(err, "")
	}
	defer rows.Close()

	out := make([]posts.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, mapErr(err, "")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err, "")
	}
	return out, nil
}

// escapeLike escapa los comodines de ILIKE en el texto del usuario.
func escapeLike(s string) string {
	s = strings.TrimSpace(s)
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
