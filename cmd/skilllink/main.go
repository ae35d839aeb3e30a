// The skilllink binary is the command line client for the marketplace. It
// composes the session and chat services over either the in-memory demo
// backend (SKILLLINK_MODE=demo, the default) or the live REST API
// (SKILLLINK_MODE=live), with credentials and message ledgers persisted
// through the configured key-value backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog"

	"github.com/skilllink/skilllink-client/internal/core/domain"
	"github.com/skilllink/skilllink-client/internal/core/ports"
	"github.com/skilllink/skilllink-client/internal/core/service"
	"github.com/skilllink/skilllink-client/internal/infrastructure/api/httpapi"
	"github.com/skilllink/skilllink-client/internal/infrastructure/api/mockapi"
	"github.com/skilllink/skilllink-client/internal/infrastructure/storage"
	"github.com/skilllink/skilllink-client/internal/pkg/config"
	"github.com/skilllink/skilllink-client/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx := context.Background()
	app, err := compose(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}

	app.session.Initialize(ctx)

	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// app holds the composed client core.
type app struct {
	session *service.SessionService
	chat    *service.ChatService
	api     ports.MarketplaceAPI
}

func compose(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	kv, err := newStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	creds := service.NewCredentialStore(kv, log)

	a := &app{}

	var directory ports.UserDirectory
	switch cfg.Mode {
	case "live":
		client := httpapi.New(cfg.APIBase, creds, log,
			httpapi.WithSessionInvalidatedHook(func() {
				if a.session != nil {
					a.session.Invalidate()
				}
			}))
		a.api = client
		directory = &apiDirectory{api: client, session: func() *service.SessionService { return a.session }}
	default:
		svc := mockapi.New(cfg.JWTSecret, log)
		a.api = svc
		directory = svc
	}

	a.session = service.NewSessionService(a.api, creds, log)
	a.chat = service.NewChatService(kv, directory, log)
	return a, nil
}

func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.KeyValue, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return storage.NewMemory(), nil
	case "redis":
		client, err := storage.ConnectRedis(ctx, storage.RedisConfig{
			Addr: cfg.Storage.Redis.Addr,
			DB:   cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewRedis(client, log), nil
	default:
		return storage.NewFile(cfg.Storage.Dir)
	}
}

// apiDirectory resolves conversation partners through the remote API. The
// signed-in user resolves locally; everyone else must be a visible worker.
type apiDirectory struct {
	api     ports.MarketplaceAPI
	session func() *service.SessionService
}

func (d *apiDirectory) UserByID(id string) (domain.User, bool) {
	if s := d.session(); s != nil {
		if u := s.CurrentUser(); u != nil && u.Base().ID == id {
			return u, true
		}
	}
	w, err := d.api.GetWorkerByID(context.Background(), id)
	if err != nil {
		return nil, false
	}
	return w, true
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return a.login(ctx, args)
	case "register":
		return a.register(ctx, args)
	case "logout":
		a.session.Logout(ctx)
		fmt.Println("signed out")
		return nil
	case "whoami":
		return a.whoami()
	case "workers":
		return a.workers(ctx)
	case "jobs":
		return a.jobs(ctx)
	case "post-job":
		return a.postJob(ctx, args)
	case "apply":
		return a.apply(ctx, args)
	case "send":
		return a.send(args)
	case "inbox":
		return a.inbox()
	case "chat":
		return a.conversation(args)
	case "categories":
		return a.categories(ctx)
	case "locations":
		return a.locations(ctx)
	default:
		usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "client", "client or worker")
	_ = fs.Parse(args)

	ok := a.session.Login(ctx, ports.LoginCredentials{
		Email:    *email,
		Password: *password,
		Role:     domain.Role(*role),
	})
	if !ok {
		return fmt.Errorf("login failed: %s", a.session.LastError())
	}
	u := a.session.CurrentUser()
	fmt.Printf("signed in as %s (%s)\n", u.Base().Name, u.Role())
	return nil
}

func (a *app) register(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	phone := fs.String("phone", "", "phone number")
	role := fs.String("role", "client", "client or worker")
	location := fs.String("location", "", "city")
	company := fs.String("company", "", "company (clients)")
	category := fs.String("category", "", "trade category (workers)")
	skills := fs.String("skills", "", "comma-separated skills (workers)")
	bio := fs.String("bio", "", "short bio (workers)")
	_ = fs.Parse(args)

	input := ports.RegisterInput{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Phone:    *phone,
		Role:     domain.Role(*role),
		Location: *location,
		Company:  *company,
		Category: *category,
		Bio:      *bio,
	}
	if *skills != "" {
		input.Skills = strings.Split(*skills, ",")
	}

	if !a.session.Register(ctx, input) {
		return fmt.Errorf("registration failed: %s", a.session.LastError())
	}
	u := a.session.CurrentUser()
	fmt.Printf("registered %s (%s)\n", u.Base().Name, u.Role())
	return nil
}

func (a *app) whoami() error {
	u := a.session.CurrentUser()
	if u == nil {
		fmt.Println("not signed in")
		return nil
	}
	fmt.Printf("%s <%s> role=%s id=%s\n", u.Base().Name, u.Base().Email, u.Role(), u.Base().ID)
	if !a.session.IsAuthenticated() {
		fmt.Println("(session expired; sign in again to make API calls)")
	}
	return nil
}

func (a *app) workers(ctx context.Context) error {
	workers, err := a.api.GetWorkers(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tRATE\tRATING\tAVAILABILITY")
	for _, wk := range workers {
		fmt.Fprintf(w, "%s\t%s\t%s\t$%.0f/hr\t%.1f\t%s\n",
			wk.ID, wk.Name, wk.Category, wk.HourlyRate, wk.Rating, wk.Availability)
	}
	return w.Flush()
}

func (a *app) jobs(ctx context.Context) error {
	jobs, err := a.api.GetJobs(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tLOCATION\tBUDGET\tSTATUS")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t$%.0f\t%s\n",
			j.ID, j.Title, j.Category, j.Location, j.Budget, j.Status)
	}
	return w.Flush()
}

func (a *app) postJob(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("post-job", flag.ExitOnError)
	title := fs.String("title", "", "job title")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "trade category")
	location := fs.String("location", "", "city")
	budget := fs.Float64("budget", 0, "budget in dollars")
	duration := fs.String("duration", "", "expected duration")
	_ = fs.Parse(args)

	job, err := a.api.CreateJob(ctx, ports.JobInput{
		Title:       *title,
		Description: *desc,
		Category:    *category,
		Location:    *location,
		Budget:      *budget,
		Duration:    *duration,
	})
	if err != nil {
		return err
	}
	fmt.Printf("posted job %s: %s\n", job.ID, job.Title)
	return nil
}

func (a *app) apply(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	jobID := fs.String("job", "", "job id")
	message := fs.String("message", "", "cover message")
	rate := fs.Float64("rate", 0, "proposed hourly rate")
	_ = fs.Parse(args)

	created, err := a.api.CreateApplication(ctx, ports.ApplicationInput{
		JobID:        *jobID,
		Message:      *message,
		ProposedRate: *rate,
	})
	if err != nil {
		return err
	}
	fmt.Printf("applied to job %s (application %s)\n", created.JobID, created.ID)
	return nil
}

func (a *app) send(args []string) error {
	fs := flag.NewFlagSet("send", flag.ExitOnError)
	to := fs.String("to", "", "recipient user id")
	message := fs.String("message", "", "message text")
	jobID := fs.String("job", "", "related job id")
	_ = fs.Parse(args)

	u := a.session.CurrentUser()
	if u == nil {
		return domain.ErrUnauthenticated
	}
	msg, err := a.chat.Send(u.Base().ID, *to, *message, *jobID)
	if err != nil {
		return err
	}
	if msg == nil {
		fmt.Println("nothing to send")
		return nil
	}
	fmt.Printf("sent %s\n", msg.ID)
	return nil
}

func (a *app) inbox() error {
	u := a.session.CurrentUser()
	if u == nil {
		return domain.ErrUnauthenticated
	}
	previews := a.chat.Previews(u.Base().ID)
	if len(previews) == 0 {
		fmt.Println("no conversations")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTNER\tID\tUNREAD\tLAST MESSAGE")
	for _, p := range previews {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			p.Partner.Base().Name, p.Partner.Base().ID, p.UnreadCount, p.LastMessage.Content)
	}
	return w.Flush()
}

func (a *app) conversation(args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	with := fs.String("with", "", "partner user id")
	_ = fs.Parse(args)

	u := a.session.CurrentUser()
	if u == nil {
		return domain.ErrUnauthenticated
	}
	for _, m := range a.chat.Conversation(u.Base().ID, *with) {
		who := "them"
		if m.SenderID == u.Base().ID {
			who = "me"
		}
		fmt.Printf("[%s] %s: %s\n", m.SentAt.Local().Format("Jan 2 15:04"), who, m.Content)
	}
	return a.chat.MarkConversationRead(u.Base().ID, *with)
}

func (a *app) categories(ctx context.Context) error {
	cats, err := a.api.GetCategories(ctx)
	if err != nil {
		return err
	}
	for _, c := range cats {
		fmt.Printf("%s\t%s\n", c.ID, c.Name)
	}
	return nil
}

func (a *app) locations(ctx context.Context) error {
	locs, err := a.api.GetLocations(ctx)
	if err != nil {
		return err
	}
	for _, l := range locs {
		fmt.Printf("%s\t%s\n", l.Value, l.Label)
	}
	return nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: skilllink <command> [flags]

commands:
  login       -email -password -role
  register    -name -email -password -phone -role [-location -company -category -skills -bio]
  logout
  whoami
  workers
  jobs
  post-job    -title -desc -category -location -budget [-duration]
  apply       -job -message -rate
  send        -to -message [-job]
  inbox
  chat        -with
  categories
  locations`)
}
