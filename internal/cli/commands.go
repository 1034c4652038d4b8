package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// Options tune `ls` output.
type Options struct {
	Group  bool         // list grouped by pending/done
	Filter model.Filter // which items to show
}

// errUnsaved is reported when the durable write behind a command failed.
var errUnsaved = errors.New("change kept in memory only; writing the list failed (see log)")

// -------------- subcommands ----------------

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [text...]",
		Short: "Add a new item (text can be multiple words, or empty)",
		Args:  usageArgs(cobra.ArbitraryArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.store.Add(strings.Join(args, " "))
			return a.done("added")
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var (
		opt    Options
		filter string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := model.ParseFilter(filter)
			if err != nil {
				return &usageError{err: err}
			}
			opt.Filter = f
			fmt.Fprintln(a.out, renderList(a.store.Items(), opt))
			return nil
		},
	}
	cmd.Flags().BoolVar(&opt.Group, "group", false, "group output by pending/done")
	cmd.Flags().StringVar(&filter, "filter", "all", "show all, active or completed items")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for item at 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.itemAt(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Toggle(it.ID); err != nil {
				return err
			}
			return a.done("toggled")
		},
	}
}

func (a *app) removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove item at 1-based index",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.itemAt(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Remove(it.ID); err != nil {
				return err
			}
			return a.done("removed")
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <index> [text...]",
		Short: "Replace the text of item at 1-based index",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, err := a.itemAt(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.store.Rename(it.ID, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return a.done("updated")
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every completed item",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := a.store.ClearCompleted()
			return a.done(fmt.Sprintf("cleared %d", n))
		},
	}
}

// itemAt resolves a 1-based index into the unfiltered list, as `ls` numbers it.
func (a *app) itemAt(cmd *cobra.Command, arg string) (model.Item, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return model.Item{}, usagef("usage: "+cmd.UseLine(), "%s: not a number: %s", cmd.Name(), arg)
	}
	items := a.store.Items()
	if n < 1 || n > len(items) {
		return model.Item{}, usagef("Hint: run `todo ls` to see valid indexes",
			"index out of range: have %d, got %d", len(items), n)
	}
	return items[n-1], nil
}

// done reports success, or errUnsaved when the durable mirror fell behind.
func (a *app) done(msg string) error {
	if a.store.Dirty() {
		return errUnsaved
	}
	ui.OK(a.out, msg)
	return nil
}

// -------------- rendering helpers --------------

// numbered keeps an item's position in the unfiltered list.
type numbered struct {
	n  int
	it model.Item
}

func renderList(items model.List, opt Options) string {
	t := ui.Current()
	d, p := model.Stats(items)

	var lines []string
	header := ui.Header(d, p)
	if opt.Filter != model.FilterAll {
		header += "  " + t.Muted.Render("("+opt.Filter.String()+")")
	}
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	var shown []numbered
	for i, it := range items {
		if opt.Filter.Match(it) {
			shown = append(shown, numbered{n: i + 1, it: it})
		}
	}

	switch {
	case len(items) == 0:
		lines = append(lines, t.Muted.Render("No todos yet"))
	case opt.Group:
		lines = append(lines, groupLines(shown)...)
	default:
		lines = append(lines, flatLines(shown)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func flatLines(items []numbered) []string {
	t := ui.Current()
	if len(items) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, e := range items {
		idx := fmt.Sprintf("%2d.", e.n)
		box := t.Muted.Render(t.BoxUnchecked)
		text := ui.Label(e.it.Text)
		if r := []rune(text); len(r) > 80 {
			text = string(r[:77]) + "..."
		}
		if e.it.Completed {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, text))
	}
	return out
}

func groupLines(items []numbered) []string {
	t := ui.Current()
	var pend, done []numbered
	for _, e := range items {
		if e.it.Completed {
			done = append(done, e)
		} else {
			pend = append(pend, e)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}
