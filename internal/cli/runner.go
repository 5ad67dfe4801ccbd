package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"mytodos/internal/models"
	"mytodos/internal/store"
)

// Exit codes returned by Run.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

const maxListTitle = 80

// Options carries the store and output streams for a run.
type Options struct {
	Store  store.Store
	Out    io.Writer
	ErrOut io.Writer
}

type runner struct {
	ctx       context.Context
	store     store.Store
	out       io.Writer
	errOut    io.Writer
	outStyles styles
	errStyles styles
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 store
// error, 2 usage, validation or not found).
func Run(ctx context.Context, args []string, opt Options) int {
	r := &runner{
		ctx:       ctx,
		store:     opt.Store,
		out:       opt.Out,
		errOut:    opt.ErrOut,
		outStyles: newStyles(opt.Out),
		errStyles: newStyles(opt.ErrOut),
	}

	if len(args) == 0 {
		PrintHelp(r.errOut)
		return ExitUsage
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return ExitOK

	case "ls":
		return r.list()

	case "add":
		if len(a) == 0 {
			r.fail("usage: todo add <title...>")
			return ExitUsage
		}
		return r.add(strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			r.fail("usage: todo done <id>")
			return ExitUsage
		}
		id, ok := r.parseID("done", a[0])
		if !ok {
			return ExitUsage
		}
		return r.toggle(id)

	case "edit":
		if len(a) < 2 {
			r.fail("usage: todo edit <id> <title...>")
			return ExitUsage
		}
		id, ok := r.parseID("edit", a[0])
		if !ok {
			return ExitUsage
		}
		return r.edit(id, strings.Join(a[1:], " "))

	case "rm":
		if len(a) != 1 {
			r.fail("usage: todo rm <id>")
			return ExitUsage
		}
		id, ok := r.parseID("rm", a[0])
		if !ok {
			return ExitUsage
		}
		return r.remove(id)
	}

	r.fail("unknown subcommand: " + cmd)
	PrintHelp(r.errOut)
	return ExitUsage
}

// PrintHelp writes usage information.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny CLI

Usage:
  todo [-file path] <subcommand> [args]

Subcommands:
  add <title...>        Add a new item (title can be multiple words)
  ls                    List items
  done <id>             Toggle done for the item with that id
  edit <id> <title...>  Change the title of an item
  rm <id>               Remove the item with that id

Examples:
  todo add "Buy milk"
  todo ls
  todo done 2
  todo rm 3
`)
}

// -------------- subcommand impls ----------------

func (r *runner) list() int {
	todos, err := r.store.List(r.ctx)
	if err != nil {
		return r.storeFailure("ls", err)
	}

	s := r.outStyles
	d, p := stats(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  Total %d",
		s.title.Render("Todos"),
		s.success.Render("✔"), d,
		s.pending.Render("•"), p,
		len(todos),
	)

	lines := []string{header, s.muted.Render(progressBar(d, d+p, 28)), ""}
	if len(todos) == 0 {
		lines = append(lines, s.muted.Render("no items"))
	}
	for _, t := range todos {
		box, title := boxUnchecked, t.Title
		if len([]rune(title)) > maxListTitle {
			title = string([]rune(title)[:maxListTitle-3]) + "..."
		}
		if t.Done {
			box, title = s.success.Render(boxChecked), s.done.Render(title)
		}
		lines = append(lines, fmt.Sprintf("%3d %s %s", t.ID, box, title))
	}

	r.panel(lines)
	return ExitOK
}

func (r *runner) add(title string) int {
	todo, err := r.store.Create(r.ctx, title)
	if err != nil {
		return r.storeFailure("add", err)
	}
	r.ok(fmt.Sprintf("added #%d", todo.ID))
	return ExitOK
}

func (r *runner) toggle(id int64) int {
	todo, err := r.store.GetByID(r.ctx, id)
	if err != nil {
		return r.storeFailure("done", err)
	}
	todo, err = r.store.Update(r.ctx, id, todo.Title, !todo.Done)
	if err != nil {
		return r.storeFailure("done", err)
	}
	if todo.Done {
		r.ok(fmt.Sprintf("#%d done", id))
	} else {
		r.ok(fmt.Sprintf("#%d reopened", id))
	}
	return ExitOK
}

func (r *runner) edit(id int64, title string) int {
	todo, err := r.store.GetByID(r.ctx, id)
	if err != nil {
		return r.storeFailure("edit", err)
	}
	if _, err := r.store.Update(r.ctx, id, title, todo.Done); err != nil {
		return r.storeFailure("edit", err)
	}
	r.ok(fmt.Sprintf("#%d updated", id))
	return ExitOK
}

func (r *runner) remove(id int64) int {
	if err := r.store.Delete(r.ctx, id); err != nil {
		return r.storeFailure("rm", err)
	}
	r.ok(fmt.Sprintf("removed #%d", id))
	return ExitOK
}

// -------------- helpers ----------------

func (r *runner) parseID(cmd, s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		r.fail(cmd + ": not a valid id: " + s)
		return 0, false
	}
	return id, true
}

func (r *runner) storeFailure(cmd string, err error) int {
	var storeErr *store.Error
	switch {
	case errors.Is(err, store.ErrNotFound) && errors.As(err, &storeErr):
		r.fail(fmt.Sprintf("%s: no todo with id %d", cmd, storeErr.ID))
		fmt.Fprintln(r.errOut, r.errStyles.muted.Render("Hint: run `todo ls` to see valid ids"))
		return ExitUsage
	case errors.Is(err, store.ErrValidation) && errors.As(err, &storeErr):
		r.fail(cmd + ": " + storeErr.Message)
		return ExitUsage
	default:
		r.fail(cmd + ": " + err.Error())
		return ExitError
	}
}

func stats(todos []models.Todo) (done, pending int) {
	for _, t := range todos {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
