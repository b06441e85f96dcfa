package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jainpranitx-spec/DevBrain/internal/config"
	"github.com/jainpranitx-spec/DevBrain/internal/models"
	"github.com/jainpranitx-spec/DevBrain/internal/notify"
	"github.com/jainpranitx-spec/DevBrain/internal/notify/discord"
	"github.com/jainpranitx-spec/DevBrain/internal/notify/slack"
	"github.com/jainpranitx-spec/DevBrain/internal/watch"
)

const shellPrompt = "devbrain> "

var errQuit = errors.New("quit")

func newShellCmd() *cobra.Command {
	var (
		configPath string
		noWatch    bool
		noNotify   bool
	)

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive session on the project map",
		Long: `Opens an interactive session. Select a node, add children under it,
change status and chat with the assistant without reloading the project.

The backend is probed on the watch.schedule from the config and
connectivity changes are printed as they happen. Node changes are posted
to Slack and Discord when configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, configPath, func(ctx context.Context, a *app) error {
				return runShell(ctx, cmd, a, !noWatch, !noNotify)
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to DevBrain config file")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "disable scheduled connectivity checks")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "do not post node changes to chat platforms")
	return cmd
}

// lineReader yields one input line per call and io.EOF at the end.
type lineReader interface {
	ReadLine() (string, error)
}

type scannerReader struct{ s *bufio.Scanner }

func (r scannerReader) ReadLine() (string, error) {
	if r.s.Scan() {
		return r.s.Text(), nil
	}
	if err := r.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// lockedWriter serializes writes from the input loop and the watcher.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

type shell struct {
	app *app
	out io.Writer
}

func runShell(ctx context.Context, cmd *cobra.Command, a *app, watchOn, notifyOn bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	in, out, restore, err := shellIO(cmd)
	if err != nil {
		return err
	}
	defer restore()
	sh := &shell{app: a, out: out}

	if notifyOn {
		stop, err := startNotify(ctx, a)
		if err != nil {
			return err
		}
		defer stop()
	}
	if watchOn {
		_, err := watch.Start(ctx, watch.Opts{
			Schedule: a.cfg.Watch.Schedule,
			Checker:  a.store,
			Logger:   a.logger,
			OnChange: func(connected bool) {
				fmt.Fprintf(out, "[watch] %s\n", connectionText(connected))
			},
		})
		if err != nil {
			return err
		}
	}

	fmt.Fprint(out, formatHeader(a.store.Snapshot()))
	fmt.Fprintln(out, `Type "help" for commands.`)
	for {
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if err := sh.exec(ctx, line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
		if msg := a.store.Snapshot().Err; msg != "" {
			fmt.Fprintf(out, "Warning: backend sync failed: %s (local change kept)\n", msg)
			a.store.ClearError()
		}
	}
}

// shellIO uses a raw-mode line editor when stdin is a terminal and a
// plain scanner otherwise.
func shellIO(cmd *cobra.Command) (lineReader, io.Writer, func(), error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("shell: raw mode: %w", err)
		}
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{f, cmd.OutOrStdout()}, shellPrompt)
		t.AutoCompleteCallback = completeCommand
		return t, t, func() { term.Restore(fd, state) }, nil
	}
	out := &lockedWriter{w: cmd.OutOrStdout()}
	return scannerReader{bufio.NewScanner(cmd.InOrStdin())}, out, func() {}, nil
}

// completeCommand expands a command name on tab.
func completeCommand(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || strings.Contains(line, " ") {
		return "", 0, false
	}
	var match string
	for name := range shellCommands {
		if strings.HasPrefix(name, line) {
			if match != "" {
				return "", 0, false
			}
			match = name
		}
	}
	if match == "" {
		return "", 0, false
	}
	return match + " ", len(match) + 1, true
}

// startNotify attaches a dispatcher for every configured platform. The
// returned func flushes pending notices.
func startNotify(ctx context.Context, a *app) (func(), error) {
	var notifiers []notify.Notifier
	if c := a.cfg.Notify.Slack; c.Enabled() {
		n, err := slack.New(slack.Opts{BotToken: c.Token, ChannelID: c.Channel})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if c := a.cfg.Notify.Discord; c.Enabled() {
		n, err := discord.New(discord.Opts{BotToken: c.Token, ChannelID: c.Channel})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}
	if len(notifiers) == 0 {
		return func() {}, nil
	}

	d, err := notify.New(notify.Opts{Notifiers: notifiers, Logger: a.logger})
	if err != nil {
		return nil, err
	}
	d.Attach(a.store)
	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(ctx)
	}()
	return func() {
		d.Close()
		<-done
	}, nil
}

type shellCommand struct {
	usage string
	help  string
	run   func(sh *shell, ctx context.Context, args []string) error
}

var shellCommands map[string]shellCommand

func init() {
	shellCommands = map[string]shellCommand{
		"help":     {"help", "list commands", (*shell).help},
		"show":     {"show", "print the project tree", (*shell).show},
		"select":   {"select <node>", "select a node for add, chat and history", (*shell).selectNode},
		"deselect": {"deselect", "clear the selection", (*shell).deselect},
		"add":      {"add <label...>", "add a node under the selected node, or a root", (*shell).add},
		"status":   {"status [node] <status>", "set a node's status", (*shell).status},
		"move":     {"move [node] <x> <y>", "set a node's layout position", (*shell).move},
		"delete":   {"delete [node]", "delete a node and its descendants", (*shell).delete},
		"chat":     {"chat <message...>", "ask the assistant about the selected node", (*shell).chat},
		"history":  {"history", "print the selected node's conversation", (*shell).history},
		"search":   {"search <query...>", "search the knowledge base", (*shell).search},
		"check":    {"check", "probe the backend now", (*shell).check},
		"quit":     {"quit", "leave the shell", func(*shell, context.Context, []string) error { return errQuit }},
	}
	shellCommands["exit"] = shellCommands["quit"]
}

func (sh *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	c, ok := shellCommands[fields[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}
	return c.run(sh, ctx, fields[1:])
}

// target resolves an explicit node argument, or the selection when arg is
// empty.
func (sh *shell) target(arg string) (models.NodeID, error) {
	if arg != "" {
		return resolveNode(sh.app, arg)
	}
	if sel := sh.app.store.Snapshot().Selected; sel != nil {
		return *sel, nil
	}
	return models.NodeID{}, errors.New("no node given and none selected")
}

func (sh *shell) help(_ context.Context, _ []string) error {
	names := make([]string, 0, len(shellCommands))
	for name := range shellCommands {
		if name != "exit" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		c := shellCommands[name]
		fmt.Fprintf(sh.out, "  %-24s %s\n", c.usage, c.help)
	}
	return nil
}

func (sh *shell) show(_ context.Context, _ []string) error {
	snap := sh.app.store.Snapshot()
	fmt.Fprint(sh.out, formatHeader(snap))
	fmt.Fprint(sh.out, formatTree(snap))
	return nil
}

func (sh *shell) selectNode(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: select <node>")
	}
	id, err := resolveNode(sh.app, args[0])
	if err != nil {
		return err
	}
	sh.app.store.SelectNode(id)
	n, _ := sh.app.store.Snapshot().Node(id)
	fmt.Fprintf(sh.out, "Selected %s (%s)\n", id, n.Label)
	return nil
}

func (sh *shell) deselect(_ context.Context, _ []string) error {
	sh.app.store.DeselectNode()
	fmt.Fprintln(sh.out, "Selection cleared.")
	return nil
}

func (sh *shell) add(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: add <label...>")
	}
	in := models.NodeInput{Label: strings.Join(args, " ")}
	if sel := sh.app.store.Snapshot().Selected; sel != nil {
		parent := *sel
		in.ParentID = &parent
	}
	n := sh.app.store.AddNode(ctx, in)
	fmt.Fprintf(sh.out, "Added node %s (%s)\n", n.ID, n.Label)
	return nil
}

func (sh *shell) status(ctx context.Context, args []string) error {
	var nodeArg, statusArg string
	switch len(args) {
	case 1:
		statusArg = args[0]
	case 2:
		nodeArg, statusArg = args[0], args[1]
	default:
		return errors.New("usage: status [node] <status>")
	}
	id, err := sh.target(nodeArg)
	if err != nil {
		return err
	}
	st, err := models.ParseStatus(statusArg)
	if err != nil {
		return err
	}
	if err := sh.app.store.UpdateNodeStatus(ctx, id, st); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Node %s is now %s\n", id, st)
	return nil
}

func (sh *shell) move(ctx context.Context, args []string) error {
	var nodeArg string
	switch len(args) {
	case 2:
	case 3:
		nodeArg, args = args[0], args[1:]
	default:
		return errors.New("usage: move [node] <x> <y>")
	}
	id, err := sh.target(nodeArg)
	if err != nil {
		return err
	}
	x, errX := strconv.ParseFloat(args[0], 64)
	y, errY := strconv.ParseFloat(args[1], 64)
	if errX != nil || errY != nil {
		return fmt.Errorf("invalid position %q %q", args[0], args[1])
	}
	if err := sh.app.store.UpdateNodePosition(ctx, id, models.Position{X: x, Y: y}); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Moved node %s to (%g, %g)\n", id, x, y)
	return nil
}

func (sh *shell) delete(ctx context.Context, args []string) error {
	var nodeArg string
	if len(args) > 0 {
		nodeArg = args[0]
	}
	id, err := sh.target(nodeArg)
	if err != nil {
		return err
	}
	before := len(sh.app.store.Snapshot().Nodes)
	if err := sh.app.store.DeleteNode(ctx, id); err != nil {
		return err
	}
	removed := before - len(sh.app.store.Snapshot().Nodes)
	fmt.Fprintf(sh.out, "Deleted node %s (%d node(s) removed)\n", id, removed)
	return nil
}

func (sh *shell) chat(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: chat <message...>")
	}
	id, err := sh.target("")
	if err != nil {
		return err
	}
	reply := sh.app.store.AddChatMessage(ctx, id, strings.Join(args, " "), sh.app.store.UseKnowledge())
	fmt.Fprint(sh.out, formatMessage(reply))
	return nil
}

func (sh *shell) history(_ context.Context, _ []string) error {
	id, err := sh.target("")
	if err != nil {
		return err
	}
	msgs := sh.app.store.Snapshot().Chat(id)
	if len(msgs) == 0 {
		fmt.Fprintln(sh.out, "No messages yet.")
		return nil
	}
	for _, m := range msgs {
		fmt.Fprint(sh.out, formatMessage(m))
	}
	return nil
}

func (sh *shell) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: search <query...>")
	}
	docs, err := sh.app.store.SearchKnowledge(ctx, strings.Join(args, " "))
	if err != nil {
		return knowledgeErr(err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(sh.out, "No matching documents.")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintf(sh.out, "  %s  %s\n", d.Title, truncate(d.ContentPreview, 60))
	}
	return nil
}

func (sh *shell) check(ctx context.Context, _ []string) error {
	fmt.Fprintln(sh.out, connectionText(sh.app.store.CheckConnection(ctx)))
	return nil
}

func connectionText(connected bool) string {
	if connected {
		return "Backend reachable"
	}
	return "Backend unreachable"
}
