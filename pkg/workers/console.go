package workers

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tutorchat/client/pkg/domain"
	"github.com/tutorchat/client/pkg/render"
	"github.com/tutorchat/client/pkg/store"
)

// console is the interactive shell over the stores. It is deliberately thin:
// every command maps onto one store action, and failures become error
// notifications the same way a page would surface them.
type console struct {
	in     io.Reader
	out    io.Writer
	auth   *store.AuthStore
	topics *store.TopicsStore
	chat   *store.ChatStore
	admin  *store.AdminStore
	ui     *store.UIStore
}

func NewConsole(
	auth *store.AuthStore,
	topics *store.TopicsStore,
	chat *store.ChatStore,
	admin *store.AdminStore,
	ui *store.UIStore,
) *console {
	return &console{
		in:     os.Stdin,
		out:    os.Stdout,
		auth:   auth,
		topics: topics,
		chat:   chat,
		admin:  admin,
		ui:     ui,
	}
}

func (c *console) Name() string { return "console" }

func (c *console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "tutorchat - type 'help' for commands")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(c.out, "> ")
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) == "quit" {
				return nil
			}
			c.dispatch(ctx, line)
			c.drainNotifications()
		}
	}
}

func (c *console) dispatch(ctx context.Context, line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	cmd, args := fields[0], fields[1:]

	var err error
	switch cmd {
	case "help":
		c.printHelp()
	case "login":
		err = c.login(ctx, args)
	case "register":
		err = c.register(ctx, args)
	case "logout":
		c.auth.Logout(ctx)
		fmt.Fprintln(c.out, "logged out")
	case "whoami":
		c.whoami()
	case "topics":
		err = c.listTopics(ctx)
	case "mktopic":
		err = c.createTopic(ctx, args)
	case "rmtopic":
		err = c.deleteTopic(ctx, args)
	case "upload":
		err = c.upload(ctx, args)
	case "sessions":
		err = c.listSessions(ctx, args)
	case "new":
		err = c.newSession(ctx, args)
	case "open":
		err = c.openSession(ctx, args)
	case "say":
		err = c.say(ctx, args)
	case "rate":
		err = c.rate(ctx, args)
	case "title":
		err = c.retitle(ctx, args)
	case "rmsession":
		err = c.deleteSession(ctx, args)
	case "export":
		err = c.export(args)
	case "dashboard":
		err = c.dashboard(ctx)
	case "users":
		err = c.users(ctx)
	case "theme":
		err = c.theme(ctx, args)
	default:
		fmt.Fprintf(c.out, "unknown command %q, try 'help'\n", cmd)
	}

	if err != nil {
		c.ui.NotifyError("command failed", err.Error())
	}
}

func (c *console) printHelp() {
	fmt.Fprint(c.out, `commands:
  login <email> <password>       register <email> <password> <name>
  logout                         whoami
  topics                         mktopic <name> [description...]
  rmtopic <id>                   upload <topicID> <file>
  sessions [topicID]             new <topicID> [title...]
  open <sessionID>               say <text...>
  rate <messageID> <positive|negative>
  title <sessionID> <text...>    rmsession <sessionID>
  export <file.html>             dashboard
  users                          theme <light|dark>
  quit
`)
}

func (c *console) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <email> <password>")
	}
	if err := c.auth.Login(ctx, domain.Credentials{Email: args[0], Password: args[1]}); err != nil {
		return err
	}
	c.ui.NotifySuccess("signed in", c.auth.User().Name)
	return nil
}

func (c *console) register(ctx context.Context, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: register <email> <password> <name>")
	}
	reg := domain.Registration{Email: args[0], Password: args[1], Name: strings.Join(args[2:], " ")}
	if err := c.auth.Register(ctx, reg); err != nil {
		return err
	}
	c.ui.NotifySuccess("account created", reg.Email)
	return nil
}

func (c *console) whoami() {
	if !c.auth.IsAuthenticated() {
		fmt.Fprintln(c.out, "not signed in")
		return
	}
	user := c.auth.User()
	fmt.Fprintf(c.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Role)
}

func (c *console) listTopics(ctx context.Context) error {
	if err := c.topics.FetchAll(ctx); err != nil {
		return err
	}
	for _, t := range c.topics.Topics() {
		fmt.Fprintf(c.out, "%4d  %-24s %-9s docs=%d\n", t.ID, t.Name, t.Status, t.DocumentCount)
	}
	return nil
}

func (c *console) createTopic(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mktopic <name> [description...]")
	}
	draft := domain.TopicDraft{Name: args[0], Description: strings.Join(args[1:], " ")}
	if err := c.topics.Create(ctx, draft); err != nil {
		return err
	}
	c.ui.NotifySuccess("topic created", draft.Name)
	return nil
}

func (c *console) deleteTopic(ctx context.Context, args []string) error {
	id, err := argInt64(args, 0, "rmtopic <id>")
	if err != nil {
		return err
	}
	return c.topics.Delete(ctx, id)
}

func (c *console) upload(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: upload <topicID> <file>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad topic id %q", args[0])
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	if err := c.topics.UploadDocument(ctx, id, f.Name(), f); err != nil {
		return err
	}
	c.ui.NotifySuccess("document uploaded", args[1])
	return nil
}

func (c *console) listSessions(ctx context.Context, args []string) error {
	var topicID int64
	if len(args) > 0 {
		var err error
		if topicID, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return fmt.Errorf("bad topic id %q", args[0])
		}
	}
	if err := c.chat.FetchSessions(ctx, topicID); err != nil {
		return err
	}
	for _, sess := range c.chat.Sessions() {
		fmt.Fprintf(c.out, "%s  %-32s msgs=%d\n", sess.ID, sess.Title, sess.MessageCount)
	}
	return nil
}

func (c *console) newSession(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: new <topicID> [title...]")
	}
	topicID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("bad topic id %q", args[0])
	}
	draft := domain.SessionDraft{TopicID: topicID, Title: strings.Join(args[1:], " ")}
	return c.chat.CreateSession(ctx, draft)
}

func (c *console) openSession(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <sessionID>")
	}
	if err := c.chat.FetchMessages(ctx, args[0]); err != nil {
		return err
	}
	c.printMessages(c.chat.Messages())
	return nil
}

func (c *console) say(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: say <text...>")
	}
	if err := c.chat.SendMessage(ctx, strings.Join(args, " "), "", nil); err != nil {
		return err
	}

	messages := c.chat.Messages()
	if len(messages) > 0 {
		c.printMessages(messages[len(messages)-1:])
	}
	return nil
}

func (c *console) rate(ctx context.Context, args []string) error {
	if len(args) != 2 || (args[1] != domain.RatingPositive && args[1] != domain.RatingNegative) {
		return fmt.Errorf("usage: rate <messageID> <positive|negative>")
	}
	return c.chat.UpdateMessageFeedback(ctx, args[0], args[1])
}

func (c *console) retitle(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: title <sessionID> <text...>")
	}
	return c.chat.UpdateSessionTitle(ctx, args[0], strings.Join(args[1:], " "))
}

func (c *console) deleteSession(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rmsession <sessionID>")
	}
	return c.chat.DeleteSession(ctx, args[0])
}

func (c *console) export(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: export <file.html>")
	}
	session, ok := c.chat.Current()
	if !ok {
		return fmt.Errorf("no open session to export")
	}
	doc := render.Transcript(session, c.chat.Messages())
	if err := os.WriteFile(args[0], doc, 0o644); err != nil {
		return err
	}
	c.ui.NotifySuccess("transcript exported", args[0])
	return nil
}

func (c *console) dashboard(ctx context.Context) error {
	if err := c.admin.FetchDashboard(ctx); err != nil {
		return err
	}
	stats := c.admin.Stats()
	fmt.Fprintf(c.out, "users=%d topics=%d sessions=%d messages=%d active_today=%d\n",
		stats.TotalUsers, stats.TotalTopics, stats.TotalSessions, stats.TotalMessages, stats.ActiveUsersToday)
	return nil
}

func (c *console) users(ctx context.Context) error {
	if err := c.admin.FetchUsers(ctx); err != nil {
		return err
	}
	for _, u := range c.admin.UsersList() {
		fmt.Fprintf(c.out, "%4d  %-24s %-28s %s\n", u.ID, u.Name, u.Email, u.Role)
	}
	return nil
}

func (c *console) theme(ctx context.Context, args []string) error {
	if len(args) != 1 || (args[0] != store.ThemeLight && args[0] != store.ThemeDark) {
		return fmt.Errorf("usage: theme <light|dark>")
	}
	c.ui.SetTheme(ctx, args[0])
	return nil
}

func (c *console) printMessages(messages []domain.ChatMessage) {
	for _, m := range messages {
		fmt.Fprintf(c.out, "[%s] %s\n", m.Sender, m.Content)
	}
}

func (c *console) drainNotifications() {
	for _, n := range c.ui.Notifications() {
		fmt.Fprintf(c.out, "(%s) %s: %s\n", n.Kind, n.Title, n.Body)
		c.ui.RemoveNotification(n.ID)
	}
}

func argInt64(args []string, idx int, usage string) (int64, error) {
	if len(args) <= idx {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	v, err := strconv.ParseInt(args[idx], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("bad id %q", args[idx])
	}
	return v, nil
}
