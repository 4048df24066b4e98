package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"dog-breed-social/internal/client/api"
	"dog-breed-social/internal/client/store"
	"dog-breed-social/internal/platform/query"
)

func (c *cli) breedsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breeds",
		Short: "Browse the breed catalogue",
	}
	cmd.AddCommand(c.breedsListCmd(), c.breedsShowCmd(), c.breedsFavCmd(), c.breedsStatsCmd())
	return cmd
}

func (c *cli) breedsListCmd() *cobra.Command {
	var (
		q        api.BreedQuery
		favsOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List breeds (filters run locally over the loaded catalogue)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Breeds
			if !s.Load(ctx, api.BreedQuery{}) {
				return failed(s.Snapshot().Error)
			}

			list := s.Filter(store.BreedFilter{Search: q.Search, Category: q.Category, Personality: q.Personality})
			if favsOnly {
				list = store.FilterFavorites(list, s.Snapshot().Favorites)
			}
			list = store.SortBreeds(list, store.BreedSort(q.Sort), query.ParseOrder(q.Order))

			if c.asJSON {
				return c.printJSON(list)
			}
			c.renderBreeds(list, s.Snapshot().Favorites)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q.Category, "category", "c", "", "small, medium, large or all")
	f.StringSliceVarP(&q.Personality, "personality", "t", nil, "Personality tags (any matches)")
	f.StringVarP(&q.Search, "search", "s", "", "Text in name or description")
	f.StringVar(&q.Sort, "sort", "", "name or popularity")
	f.StringVar(&q.Order, "order", "asc", "asc or desc")
	f.BoolVar(&favsOnly, "favorites", false, "Only favorite breeds")
	return cmd
}

func (c *cli) breedsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a breed in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := breedID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Breeds
			if !s.Select(ctx, id) {
				return failed(s.Snapshot().Error)
			}
			b := *s.Snapshot().Selected
			if c.asJSON {
				return c.printJSON(b)
			}
			c.renderBreed(b)
			if s.IsFavorite(id) {
				fmt.Fprintln(c.out, faintStyle.Render("in your favorites"))
			}
			return nil
		},
	}
}

func (c *cli) breedsFavCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a breed in the local favorites",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			id, err := breedID(args[0])
			if err != nil {
				return err
			}
			s := c.app.Breeds
			if !s.ToggleFavorite(id) {
				return failed(s.Snapshot().Error)
			}
			if s.IsFavorite(id) {
				c.printf("Breed %d added to favorites\n", id)
			} else {
				c.printf("Breed %d removed from favorites\n", id)
			}
			return nil
		},
	}
}

func (c *cli) breedsStatsCmd() *cobra.Command {
	var in api.StatsUpdate
	names := []struct {
		flag string
		dst  **int
	}{
		{"friendliness", &in.Friendliness},
		{"energy", &in.EnergyLevel},
		{"trainability", &in.Trainability},
		{"grooming", &in.GroomingNeeds},
		{"adaptability", &in.Adaptability},
	}
	vals := make([]int, len(names))

	cmd := &cobra.Command{
		Use:   "stats <id>",
		Short: "Update a breed's stats (0 to 5)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := breedID(args[0])
			if err != nil {
				return err
			}
			for i, n := range names {
				if cmd.Flags().Changed(n.flag) {
					v := vals[i]
					*n.dst = &v
				}
			}
			ctx, cancel := c.ctx(cmd)
			defer cancel()

			s := c.app.Breeds
			if !s.UpdateStats(ctx, id, in) {
				return failed(s.Snapshot().Error)
			}
			c.printf("Stats updated for breed %d\n", id)
			return nil
		},
	}
	for i, n := range names {
		cmd.Flags().IntVar(&vals[i], n.flag, 0, "New "+n.flag+" value")
	}
	return cmd
}

func breedID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid breed id %q", s)
	}
	return id, nil
}
