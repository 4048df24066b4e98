package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/localcache"
)

func (c *cli) postsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "Browse and interact with the community feed",
	}
	cmd.AddCommand(
		c.postsListCmd(),
		c.postsShowCmd(),
		c.postsLikeCmd(),
		c.postsCommentCmd(),
		c.postsCreateCmd(),
		c.postsDraftsCmd(),
	)
	return cmd
}

func (c *cli) postsListCmd() *cobra.Command {
	var (
		q     api.PostQuery
		pages int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the feed",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Posts
			if !s.LoadFeed(ctx, q) {
				return failed(s.Snapshot().Error)
			}
			for i := 1; i < pages && s.Snapshot().HasMore; i++ {
				if !s.LoadMore(ctx) {
					return failed(s.Snapshot().Error)
				}
			}

			st := s.Snapshot()
			if c.asJSON {
				return c.printJSON(st.Posts)
			}
			c.renderPosts(st.Posts)
			if st.HasMore {
				fmt.Fprintln(c.out, faintStyle.Render(fmt.Sprintf("more posts after page %d", st.Page)))
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&q.Page, "page", 1, "First page")
	f.IntVar(&q.Limit, "limit", 10, "Posts per page")
	f.IntVar(&pages, "pages", 1, "How many pages to fetch")
	f.StringVarP(&q.Search, "search", "s", "", "Text in the description")
	f.StringVarP(&q.Tag, "tag", "t", "", "Breed or topic tag")
	return cmd
}

func (c *cli) postsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <post-id>",
		Short: "Show a post with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Posts
			if !s.LoadPost(ctx, args[0]) {
				return failed(s.Snapshot().Error)
			}
			st := s.Snapshot()
			if c.asJSON {
				return c.printJSON(map[string]any{"post": st.Current, "comments": st.Comments})
			}
			c.renderPost(*st.Current, st.Comments)
			return nil
		},
	}
}

func (c *cli) postsLikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Posts
			if !s.LoadPost(ctx, args[0]) {
				return failed(s.Snapshot().Error)
			}
			if !s.ToggleLike(ctx, args[0]) {
				return failed(s.Snapshot().Error)
			}
			p := s.Snapshot().Current
			verb := "Unliked"
			if p.IsLiked {
				verb = "Liked"
			}
			c.printf("%s post %s (%d likes)\n", verb, p.ID, p.LikesCount)
			return nil
		},
	}
}

func (c *cli) postsCommentCmd() *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "comment <post-id> <text>",
		Short: "Comment on a post (or reply with --reply-to)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Posts
			if !s.AddComment(ctx, args[0], args[1], parent) {
				return failed(s.Snapshot().Error)
			}
			c.printf("Comment added to %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "reply-to", "", "Parent comment id")
	return cmd
}

func (c *cli) postsCreateCmd() *cobra.Command {
	var (
		in        api.NewPost
		draftOnly bool
		fromDraft string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post, or keep it as a local draft",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cache := c.app.Cache
			if fromDraft != "" {
				d, ok := cache.Draft(fromDraft)
				if !ok {
					return fmt.Errorf("draft %q not found", fromDraft)
				}
				in = mergeDraft(d, in, cmd)
			}

			if draftOnly {
				id := fromDraft
				if id == "" {
					id = uuid.NewString()
				}
				d, err := cache.SaveDraft(id, localcache.DraftPatch{
					Description:      &in.Description,
					BreedTags:        &in.BreedTags,
					TopicTags:        &in.TopicTags,
					Media:            &in.Media,
					IdentifyRecordID: &in.IdentifyRecordID,
				})
				if err != nil {
					return fmt.Errorf("save draft: %w", err)
				}
				c.printf("Draft %s saved\n", d.ID)
				return nil
			}

			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Posts
			p, ok := s.CreatePost(ctx, in)
			if !ok {
				return failed(s.Snapshot().Error)
			}
			if fromDraft != "" {
				_ = cache.RemoveDraft(fromDraft)
			}
			if c.asJSON {
				return c.printJSON(p)
			}
			c.printf("Published post %s\n", p.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&in.Description, "description", "d", "", "Post text")
	f.StringSliceVar(&in.BreedTags, "breed", nil, "Breed tags")
	f.StringSliceVar(&in.TopicTags, "topic", nil, "Topic tags")
	f.StringSliceVar(&in.Media, "media", nil, "Media URLs")
	f.StringVar(&in.IdentifyRecordID, "record", "", "Identification record to attach")
	f.BoolVar(&draftOnly, "draft", false, "Save as a local draft instead of publishing")
	f.StringVar(&fromDraft, "from-draft", "", "Start from a saved draft")
	return cmd
}

// mergeDraft: los flags explícitos pisan lo guardado en el borrador.
func mergeDraft(d localcache.Draft, in api.NewPost, cmd *cobra.Command) api.NewPost {
	out := api.NewPost{
		Description:      d.Description,
		BreedTags:        d.BreedTags,
		TopicTags:        d.TopicTags,
		Media:            d.Media,
		IdentifyRecordID: d.IdentifyRecordID,
		Status:           in.Status,
	}
	f := cmd.Flags()
	if f.Changed("description") {
		out.Description = in.Description
	}
	if f.Changed("breed") {
		out.BreedTags = in.BreedTags
	}
	if f.Changed("topic") {
		out.TopicTags = in.TopicTags
	}
	if f.Changed("media") {
		out.Media = in.Media
	}
	if f.Changed("record") {
		out.IdentifyRecordID = in.IdentifyRecordID
	}
	return out
}

func (c *cli) postsDraftsCmd() *cobra.Command {
	var remove string
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "List (or remove) local drafts",
		RunE: func(*cobra.Command, []string) error {
			cache := c.app.Cache
			if remove != "" {
				if err := cache.RemoveDraft(remove); err != nil {
					return fmt.Errorf("remove draft: %w", err)
				}
				c.printf("Draft %s removed\n", remove)
				return nil
			}
			drafts := cache.Drafts()
			if c.asJSON {
				return c.printJSON(drafts)
			}
			rows := make([][]string, 0, len(drafts))
			for _, d := range drafts {
				rows = append(rows, []string{d.ID, truncate(d.Description, 40), d.UpdatedAt.Format("2006-01-02 15:04")})
			}
			c.table([]string{"ID", "DESCRIPTION", "UPDATED"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&remove, "remove", "", "Draft id to delete")
	return cmd
}
