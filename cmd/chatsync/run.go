package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/aynalab/chatsync/chat"
	"github.com/aynalab/chatsync/core"
	"github.com/aynalab/chatsync/export"
)

var (
	runUser  string
	runEmail string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive chat client",
	RunE: func(cmd *cobra.Command, args []string) error {
		if runUser == "" {
			return fmt.Errorf("authentication required: pass --user")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		stdin := bufio.NewScanner(os.Stdin)

		confirm := func(sess chat.Session) bool {
			fmt.Printf("Delete %q? This cannot be undone. [y/N] ", sess.Name)
			if !stdin.Scan() {
				return false
			}
			answer := strings.ToLower(strings.TrimSpace(stdin.Text()))
			return answer == "y" || answer == "yes"
		}

		c, err := core.New(cfg, core.WithConfirm(confirm))
		if err != nil {
			return err
		}
		defer c.Close()

		if err := c.Initialize(ctx); err != nil {
			return err
		}

		printer := &viewPrinter{self: runUser}
		sub := c.SubscribeView(printer.render)
		defer sub.Cancel()

		if err := c.SetIdentity(ctx, &chat.Identity{UserID: runUser, Email: runEmail}); err != nil {
			fmt.Println(dimStyle.Render("offline: " + err.Error()))
		}

		printer.render(c.View())
		fmt.Println(dimStyle.Render("type a message, or /help for commands"))

		repl := &repl{core: c, printer: printer}
		for {
			fmt.Print("> ")
			if !stdin.Scan() {
				return nil
			}
			line := strings.TrimSpace(stdin.Text())
			if line == "" {
				continue
			}
			if quit := repl.dispatch(ctx, line); quit {
				return nil
			}
		}
	},
}

func init() {
	runCmd.Flags().StringVar(&runUser, "user", "", "Authenticated user id")
	runCmd.Flags().StringVar(&runEmail, "email", "", "Authenticated user email")
	rootCmd.AddCommand(runCmd)
}

type repl struct {
	core    *core.Core
	printer *viewPrinter
}

// dispatch handles one input line: slash commands mutate sessions, anything
// else is sent as a message. Returns true on /quit.
func (r *repl) dispatch(ctx context.Context, line string) bool {
	if !strings.HasPrefix(line, "/") {
		if err := r.core.SendMessage(ctx, line); err != nil {
			fmt.Println(dimStyle.Render("send failed: " + err.Error()))
		}
		return false
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "/new":
		_, err = r.core.CreateSession(ctx, strings.Join(args, " "))
	case "/switch":
		if id, ok := r.resolve(args); ok {
			err = r.core.SwitchSession(ctx, id)
		}
	case "/delete":
		if id, ok := r.resolve(args); ok {
			err = r.core.DeleteSession(ctx, id)
		}
	case "/rename":
		if len(args) < 2 {
			fmt.Println(dimStyle.Render("usage: /rename <#|id> <name>"))
			return false
		}
		if id, ok := r.resolve(args[:1]); ok {
			err = r.core.RenameSession(ctx, id, strings.Join(args[1:], " "))
		}
	case "/list":
		r.list()
	case "/export":
		r.export(args)
	case "/help":
		fmt.Println(dimStyle.Render("/new [name]  /switch <#|id>  /delete <#|id>  /rename <#|id> <name>  /list  /export <fmt> [file]  /quit"))
	case "/quit", "/exit":
		return true
	default:
		fmt.Println(dimStyle.Render("unknown command: " + cmd))
	}

	if err != nil {
		fmt.Println(dimStyle.Render(err.Error()))
	}
	return false
}

// resolve maps a 1-based list position or a raw id to a session id.
func (r *repl) resolve(args []string) (string, bool) {
	if len(args) == 0 {
		fmt.Println(dimStyle.Render("missing session argument"))
		return "", false
	}
	sessions := r.core.Sessions()
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(sessions) {
			fmt.Println(dimStyle.Render("no such session number"))
			return "", false
		}
		return sessions[n-1].ID, true
	}
	return args[0], true
}

func (r *repl) list() {
	active := r.core.ActiveSession()
	for i, sess := range r.core.Sessions() {
		line := fmt.Sprintf("%d. %s %s", i+1, sess.Name, dimStyle.Render(sess.ID))
		if active != nil && sess.ID == active.ID {
			line = activeStyle.Render(line)
		}
		fmt.Println(line)
	}
}

func (r *repl) export(args []string) {
	active := r.core.ActiveSession()
	if active == nil {
		fmt.Println(dimStyle.Render("no active session"))
		return
	}
	format := "json"
	if len(args) > 0 {
		format = args[0]
	}
	exporter, err := export.NewExporter(format)
	if err != nil {
		fmt.Println(dimStyle.Render(err.Error()))
		return
	}

	transcript := &export.Transcript{
		Session:  *active,
		Messages: r.core.Messages(active.ID),
	}

	w := os.Stdout
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			fmt.Println(dimStyle.Render(err.Error()))
			return
		}
		defer f.Close()
		w = f
	}
	if err := exporter.Export(transcript, w); err != nil {
		fmt.Println(dimStyle.Render(err.Error()))
	}
}

// viewPrinter renders republished views incrementally: a session banner on
// every switch, then only messages not yet printed for that session.
type viewPrinter struct {
	mu      sync.Mutex
	self    string
	session string
	printed int
}

func (p *viewPrinter) render(v core.View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v.ActiveSession == nil {
		if p.session != "" {
			p.session = ""
			p.printed = 0
			fmt.Println(dimStyle.Render("no active session — /new to start one"))
		}
		return
	}

	if v.ActiveSession.ID != p.session {
		p.session = v.ActiveSession.ID
		p.printed = 0
		fmt.Println(activeStyle.Render("— " + v.ActiveSession.Name + " —"))
	}

	for ; p.printed < len(v.Messages); p.printed++ {
		msg := v.Messages[p.printed]
		style := peerMsgStyle
		if msg.UserID == p.self {
			style = ownMsgStyle
		}
		fmt.Printf("%s %s\n",
			dimStyle.Render(msg.Timestamp.Local().Format("15:04")),
			style.Render(msg.UserID+": "+msg.Text),
		)
	}
}
