// Command collectorctl drives the collector request list from a terminal.
//
//	collectorctl [flags] login            reads a bearer token from -token or stdin
//	collectorctl [flags] list             prints the confirmed requests
//	collectorctl [flags] markers          prints the requests that can be mapped
//	collectorctl [flags] complete <id>    marks a request completed
//	collectorctl [flags] logout           discards the stored token
//
// login and logout need -redis; the other commands accept -token instead.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/DinuthRashmika/waste-collector/internal/adapter/collection"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/memory"
	"github.com/DinuthRashmika/waste-collector/internal/adapter/redis"
	"github.com/DinuthRashmika/waste-collector/internal/app"
	"github.com/DinuthRashmika/waste-collector/internal/domain"
	"github.com/DinuthRashmika/waste-collector/internal/platform/crypto"
	"github.com/DinuthRashmika/waste-collector/internal/platform/logging"
	"github.com/DinuthRashmika/waste-collector/internal/platform/version"
)

const profilePrefix = "cli:"

var errUsage = errors.New("usage: collectorctl [flags] login|list|markers|complete <id>|logout")

type options struct {
	backendURL string
	redisURL   string
	profile    string
	token      string
	key        string
	timeout    time.Duration
	ttl        time.Duration
	verbose    bool

	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	if opts.showVersion {
		_, _ = fmt.Fprintln(stdout, version.Get().String())
		return 0
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(stderr, level, "text"))

	if len(rest) == 0 {
		_, _ = fmt.Fprintln(stderr, errUsage)
		return 2
	}

	if err := dispatch(ctx, opts, rest, stdin, stdout); err != nil {
		if errors.Is(err, errUsage) {
			_, _ = fmt.Fprintln(stderr, errUsage)
			return 2
		}
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// parseFlags reads the global flags and returns the command and its arguments.
func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	fs := flag.NewFlagSet("collectorctl", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.backendURL, "backend", envOr("BACKEND_URL", "http://localhost:4000"), "Collection backend URL (or set BACKEND_URL env)")
	fs.StringVar(&opts.redisURL, "redis", os.Getenv("REDIS_URL"), "Redis URL for stored logins (or set REDIS_URL env)")
	fs.StringVar(&opts.profile, "profile", "default", "Name the login is stored under")
	fs.StringVar(&opts.token, "token", os.Getenv("COLLECTOR_TOKEN"), "Bearer token (or set COLLECTOR_TOKEN env)")
	fs.StringVar(&opts.key, "key", os.Getenv("TOKEN_ENCRYPTION_KEY"), "Hex AES-256 key for stored tokens (or set TOKEN_ENCRYPTION_KEY env)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Backend request timeout, 0 waits indefinitely")
	fs.DurationVar(&opts.ttl, "ttl", 24*time.Hour, "Lifetime of a stored login")
	fs.BoolVar(&opts.verbose, "verbose", false, "Verbose logging")
	fs.BoolVar(&opts.showVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, nil, err
	}
	return opts, fs.Args(), nil
}

func dispatch(ctx context.Context, opts options, args []string, stdin io.Reader, stdout io.Writer) error {
	store, closeStore, err := openStore(ctx, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	session := app.NewSession(store, profilePrefix+opts.profile)
	rls := app.NewRequestListSync(collection.NewClient(opts.backendURL, opts.timeout, nil), session)
	defer rls.Close()

	switch cmd := args[0]; {
	case cmd == "login" && len(args) == 1:
		return login(ctx, opts, session, stdin, stdout)
	case cmd == "logout" && len(args) == 1:
		if opts.redisURL == "" {
			return errors.New("logout requires -redis")
		}
		next := rls.EndSession(ctx)
		_, _ = fmt.Fprintf(stdout, "Logged out of profile %q. Log in again at %s.\n", opts.profile, next)
		return nil
	case cmd == "list" && len(args) == 1:
		snap, err := load(ctx, rls)
		if err != nil {
			return err
		}
		return printCards(stdout, app.Cards(snap.Requests))
	case cmd == "markers" && len(args) == 1:
		snap, err := load(ctx, rls)
		if err != nil {
			return err
		}
		return printMarkers(stdout, app.Markers(ctx, snap.Requests))
	case cmd == "complete" && len(args) == 2:
		return complete(ctx, rls, args[1], stdout)
	default:
		return errUsage
	}
}

// openStore returns the Redis store when -redis is set. Otherwise the -token
// value is placed in a throwaway in-memory store.
func openStore(ctx context.Context, opts options) (domain.SessionStore, func(), error) {
	if opts.redisURL == "" {
		store := memory.NewSessionStore()
		if opts.token != "" {
			if err := store.Set(ctx, profilePrefix+opts.profile, domain.SessionTokenKey, opts.token); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil
	}

	var cryptoSvc crypto.Service = crypto.NoopService{}
	if opts.key != "" {
		svc, err := crypto.NewAesGcmCryptoService(opts.key)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid encryption key: %w", err)
		}
		cryptoSvc = svc
	}

	rdb, err := redis.NewClient(ctx, opts.redisURL)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("Connected to Redis", "url", sanitizeURL(opts.redisURL))

	return redis.NewSessionStore(rdb, cryptoSvc, opts.ttl), func() { _ = rdb.Close() }, nil
}

func login(ctx context.Context, opts options, session *app.Session, stdin io.Reader, stdout io.Writer) error {
	if opts.redisURL == "" {
		return errors.New("login requires -redis")
	}

	token := opts.token
	if token == "" {
		line, err := bufio.NewReader(stdin).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = line
	}
	token = strings.TrimPrefix(strings.TrimSpace(token), "Bearer ")
	if token == "" {
		return errors.New("no token given")
	}

	if err := session.SetToken(ctx, token); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "Logged in as profile %q.\n", opts.profile)
	return nil
}

func load(ctx context.Context, rls *app.RequestListSync) (app.Snapshot, error) {
	snap := rls.Load(ctx)
	if snap.Phase == app.PhaseFailed {
		return snap, errors.New(snap.Err)
	}
	return snap, nil
}

func complete(ctx context.Context, rls *app.RequestListSync, requestID string, stdout io.Writer) error {
	if _, err := load(ctx, rls); err != nil {
		return err
	}

	if err := rls.Complete(ctx, requestID); err != nil {
		if errors.Is(err, domain.ErrRequestNotInList) {
			return fmt.Errorf("request %s is not a confirmed request", requestID)
		}
		return errors.New(rls.Snapshot().Err)
	}

	for _, notice := range rls.DrainNotices() {
		_, _ = fmt.Fprintln(stdout, notice)
	}
	return nil
}

func printCards(w io.Writer, cards []domain.Card) error {
	if len(cards) == 0 {
		_, _ = fmt.Fprintln(w, "No confirmed requests available.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tUSER\tADDRESS\tSTATUS\tWEIGHT\tRECYCLE WEIGHT\tREFUND")
	for _, c := range cards {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.UserName, c.Address, c.Status, c.Weight, c.RecycleWeight, c.Refund)
	}
	return tw.Flush()
}

func printMarkers(w io.Writer, markers []domain.Marker) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tLAT\tLNG\tUSER\tADDRESS")
	for _, m := range markers {
		_, _ = fmt.Fprintf(tw, "%s\t%g\t%g\t%s\t%s\n", m.ID, m.Lat, m.Lng, m.UserName, m.Address)
	}
	return tw.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// sanitizeURL hides the password in a Redis URL for logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}
