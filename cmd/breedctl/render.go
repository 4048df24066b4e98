package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"dog-breed-social/internal/client/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

func (c *cli) table(headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(c.out, t.String())
}

func (c *cli) title(s string) {
	fmt.Fprintln(c.out, titleStyle.Render(s))
}

func (c *cli) renderBreeds(list []model.Breed, favorites []int) {
	fav := map[int]bool{}
	for _, id := range favorites {
		fav[id] = true
	}
	rows := make([][]string, 0, len(list))
	for _, b := range list {
		star := ""
		if fav[b.ID] {
			star = "*"
		}
		rows = append(rows, []string{
			strconv.Itoa(b.ID), b.Name, b.Category, strings.Join(b.Personality, ", "), strconv.Itoa(b.Popularity), star,
		})
	}
	c.table([]string{"ID", "NAME", "CATEGORY", "PERSONALITY", "POPULARITY", "FAV"}, rows)
}

func (c *cli) renderBreed(b model.Breed) {
	c.title(fmt.Sprintf("%s (#%d, %s)", b.Name, b.ID, b.Category))
	fmt.Fprintln(c.out, b.Description)
	s := b.Stats
	c.table([]string{"FRIENDLINESS", "ENERGY", "TRAINABILITY", "GROOMING", "ADAPTABILITY"}, [][]string{{
		strconv.Itoa(s.Friendliness), strconv.Itoa(s.EnergyLevel), strconv.Itoa(s.Trainability),
		strconv.Itoa(s.GroomingNeeds), strconv.Itoa(s.Adaptability),
	}})
	for _, sec := range []struct{ name, text string }{
		{"History", b.History}, {"Care", b.CareNeeds}, {"Health", b.HealthIssues},
	} {
		if sec.text != "" {
			c.title(sec.name)
			fmt.Fprintln(c.out, sec.text)
		}
	}
	for _, f := range b.FunFacts {
		fmt.Fprintf(c.out, "- %s\n", f)
	}
}

func (c *cli) renderRecord(r model.Record) {
	c.title("Record " + r.ID)
	fmt.Fprintln(c.out, faintStyle.Render(r.CreatedAt.Format("2006-01-02 15:04")+"  "+r.ImageURL))
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		rows = append(rows, []string{
			res.Breed,
			strconv.FormatFloat(res.Percentage, 'f', 1, 64) + "%",
			strconv.FormatFloat(res.Confidence, 'f', 2, 64),
		})
	}
	c.table([]string{"BREED", "SHARE", "CONFIDENCE"}, rows)
	if r.Description != "" {
		fmt.Fprintln(c.out, r.Description)
	}
	if r.PostID != nil {
		fmt.Fprintf(c.out, "posted as %s\n", *r.PostID)
	}
}

func (c *cli) renderHistory(list []model.Record) {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		top := ""
		if len(r.Results) > 0 {
			top = fmt.Sprintf("%s %.0f%%", r.Results[0].Breed, r.Results[0].Percentage)
		}
		vis := "private"
		if r.IsPublic {
			vis = "public"
		}
		rows = append(rows, []string{r.ID, r.CreatedAt.Format("2006-01-02 15:04"), top, vis})
	}
	c.table([]string{"ID", "CREATED", "TOP MATCH", "VISIBILITY"}, rows)
}

func (c *cli) renderPosts(list []model.Post) {
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		liked := ""
		if p.IsLiked {
			liked = "♥"
		}
		rows = append(rows, []string{
			p.ID, truncate(p.Description, 40), strings.Join(p.Tags(), ", "),
			strconv.Itoa(p.LikesCount) + liked, strconv.Itoa(p.CommentsCount),
		})
	}
	c.table([]string{"ID", "DESCRIPTION", "TAGS", "LIKES", "COMMENTS"}, rows)
}

func (c *cli) renderPost(p model.Post, comments []model.Comment) {
	c.title("Post " + p.ID)
	fmt.Fprintln(c.out, p.Description)
	fmt.Fprintln(c.out, faintStyle.Render(fmt.Sprintf("%d likes, %d comments, tags: %s",
		p.LikesCount, p.CommentsCount, strings.Join(p.Tags(), ", "))))
	for _, cm := range comments {
		indent := ""
		if cm.ParentID != nil {
			indent = "  "
		}
		fmt.Fprintf(c.out, "%s- [%s] %s\n", indent, cm.ID, cm.Content)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
