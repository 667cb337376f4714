package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mayank-pillai-99/bookconnect/internal/api"
	"github.com/mayank-pillai-99/bookconnect/internal/config"
	"github.com/mayank-pillai-99/bookconnect/internal/domain"
	"github.com/mayank-pillai-99/bookconnect/internal/logging"
	"github.com/mayank-pillai-99/bookconnect/internal/session"
)

func main() {
	serverFlag := flag.String("server", "", "server base URL (overrides config)")
	jsonFlag := flag.Bool("json", false, "output in JSON format")
	filtersFlag := flag.String("filters", "", `feed filters, e.g. "genre=Fantasy&sort=newest"`)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	if err := session.EnsureDirs(); err != nil {
		fatal(err)
	}
	cfg := config.LoadOrDefault(session.ConfigPath())
	if *serverFlag != "" {
		cfg.ServerURL = *serverFlag
	}

	logger, err := logging.New(session.LogPath(), false)
	if err != nil {
		fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	jar, err := session.NewJar(session.CookiePath())
	if err != nil {
		fatal(err)
	}
	client, err := api.New(cfg.ServerURL, jar, logger)
	if err != nil {
		fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch args[0] {
	case "status":
		cmdStatus(ctx, client, *jsonFlag)
	case "login":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: bookctl login <email>")
			os.Exit(1)
		}
		cmdLogin(ctx, client, args[1], *jsonFlag)
	case "logout":
		cmdLogout(ctx, client, jar)
	case "profile":
		cmdProfile(ctx, client, *jsonFlag)
	case "edit":
		cmdEdit(ctx, client, args[1:], *jsonFlag)
	case "delete-account":
		cmdDeleteAccount(ctx, client, jar)
	case "feed":
		cmdFeed(ctx, client, cfg, *filtersFlag, *jsonFlag)
	case "requests":
		cmdRequests(ctx, client, *jsonFlag)
	case "connections":
		cmdConnections(ctx, client, *jsonFlag)
	case "decide":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: bookctl decide <interested|ignored> <userId>")
			os.Exit(1)
		}
		cmdDecide(ctx, client, args[1], args[2])
	case "review":
		if len(args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: bookctl review <accepted|rejected> <requestId>")
			os.Exit(1)
		}
		cmdReview(ctx, client, args[1], args[2])
	case "chat":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "usage: bookctl chat <userId>")
			os.Exit(1)
		}
		cmdChat(ctx, client, args[1], *jsonFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: bookctl [--server <url>] [--json] <command>")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "commands:")
	fmt.Fprintln(os.Stderr, "  status                         Show session status")
	fmt.Fprintln(os.Stderr, "  login <email>                  Log in (prompts for password)")
	fmt.Fprintln(os.Stderr, "  logout                         Log out and clear the saved session")
	fmt.Fprintln(os.Stderr, "  profile                        Show your profile")
	fmt.Fprintln(os.Stderr, "  edit <field>=<value> ...       Edit profile fields (firstName, lastName, photoUrl, age, gender, about)")
	fmt.Fprintln(os.Stderr, "  delete-account                 Delete the account permanently (asks for confirmation)")
	fmt.Fprintln(os.Stderr, "  feed [--filters <q>]           Show one page of candidates")
	fmt.Fprintln(os.Stderr, "  requests                       List received requests")
	fmt.Fprintln(os.Stderr, "  connections                    List connections")
	fmt.Fprintln(os.Stderr, "  decide <interested|ignored> <userId>    Record a feed decision")
	fmt.Fprintln(os.Stderr, "  review <accepted|rejected> <requestId>  Review a received request")
	fmt.Fprintln(os.Stderr, "  chat <userId>                  Print conversation history")
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func cmdStatus(ctx context.Context, client *api.Client, jsonOut bool) {
	profile, err := client.Profile.View(ctx)
	if err != nil {
		if api.IsAuthError(err) {
			if jsonOut {
				outputJSON(map[string]string{"status": "AUTH_REQUIRED"})
			} else {
				fmt.Println("Not logged in. Use bookctl login <email>.")
			}
			return
		}
		fatal(err)
	}
	if jsonOut {
		outputJSON(map[string]any{"status": "READY", "profile": profile})
		return
	}
	fmt.Printf("Logged in as: %s\n", profile.DisplayName())
	fmt.Printf("Server:       %s\n", client.BaseURL())
}

func cmdLogin(ctx context.Context, client *api.Client, email string, jsonOut bool) {
	fmt.Fprint(os.Stderr, "Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fatal(err)
	}

	profile, err := client.Auth.Login(ctx, email, string(password))
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(profile)
		return
	}
	fmt.Printf("Logged in as %s\n", profile.DisplayName())
}

func cmdLogout(ctx context.Context, client *api.Client, jar *session.Jar) {
	if err := client.Auth.Logout(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: server logout failed: %v\n", err)
	}
	jar.Clear()
	fmt.Println("Logged out.")
}

func cmdProfile(ctx context.Context, client *api.Client, jsonOut bool) {
	profile, err := client.Profile.View(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(profile)
		return
	}
	fmt.Printf("%s\n", profile.DisplayName())
	if profile.About != "" {
		fmt.Printf("  %s\n", profile.About)
	}
	if len(profile.FavoriteGenres) > 0 {
		fmt.Printf("  Genres: %s\n", strings.Join(profile.FavoriteGenres, ", "))
	}
	for _, b := range profile.FavoriteBooks {
		if b.Author != "" {
			fmt.Printf("  - %s by %s\n", b.Title, b.Author)
		} else {
			fmt.Printf("  - %s\n", b.Title)
		}
	}
}

func cmdEdit(ctx context.Context, client *api.Client, args []string, jsonOut bool) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: bookctl edit <field>=<value> ...")
		os.Exit(1)
	}
	var params api.EditParams
	for _, arg := range args {
		field, value, found := strings.Cut(arg, "=")
		if !found {
			fatal(fmt.Errorf("expected <field>=<value>, got %q", arg))
		}
		switch field {
		case "firstName":
			params.FirstName = value
		case "lastName":
			params.LastName = value
		case "photoUrl":
			params.PhotoURL = value
		case "age":
			age, err := strconv.Atoi(value)
			if err != nil {
				fatal(fmt.Errorf("age must be a number, got %q", value))
			}
			params.Age = age
		case "gender":
			params.Gender = value
		case "about":
			params.About = value
		default:
			fatal(fmt.Errorf("unknown field %q", field))
		}
	}

	profile, err := client.Profile.Edit(ctx, params)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(profile)
		return
	}
	fmt.Printf("Profile updated: %s\n", profile.DisplayName())
}

func cmdDeleteAccount(ctx context.Context, client *api.Client, jar *session.Jar) {
	fmt.Fprint(os.Stderr, "This permanently deletes your account. Type the word delete to confirm: ")
	var confirm string
	if _, err := fmt.Fscanln(os.Stdin, &confirm); err != nil || confirm != "delete" {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(1)
	}
	if err := client.Profile.Delete(ctx); err != nil {
		fatal(err)
	}
	jar.Clear()
	fmt.Println("Account deleted.")
}

func cmdFeed(ctx context.Context, client *api.Client, cfg *config.Config, filters string, jsonOut bool) {
	criteria, err := domain.ParseQuery(filters)
	if err != nil {
		fatal(err)
	}
	profiles, err := client.Feed.Page(ctx, criteria, cfg.PageSize)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(profiles)
		return
	}
	if len(profiles) == 0 {
		fmt.Println("No readers match.")
		return
	}
	for _, p := range profiles {
		fmt.Printf("%-26s %-36s %s\n", p.ID, p.DisplayName(), strings.Join(p.FavoriteGenres, ", "))
	}
}

func cmdRequests(ctx context.Context, client *api.Client, jsonOut bool) {
	entries, err := client.Requests.Received(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(entries)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No pending requests.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%-26s from %s\n", e.ID, e.From.DisplayName())
	}
}

func cmdConnections(ctx context.Context, client *api.Client, jsonOut bool) {
	list, err := client.Connections.List(ctx)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(list)
		return
	}
	if len(list) == 0 {
		fmt.Println("No connections yet.")
		return
	}
	for _, p := range list {
		fmt.Printf("%-26s %s\n", p.ID, p.DisplayName())
	}
}

func cmdDecide(ctx context.Context, client *api.Client, verdict, userID string) {
	if err := client.Requests.Send(ctx, api.Verdict(verdict), userID); err != nil {
		fatal(err)
	}
	fmt.Printf("Recorded %s for %s\n", verdict, userID)
}

func cmdReview(ctx context.Context, client *api.Client, decision, requestID string) {
	if err := client.Requests.Review(ctx, api.Decision(decision), requestID); err != nil {
		fatal(err)
	}
	fmt.Printf("Request %s %s\n", requestID, decision)
}

func cmdChat(ctx context.Context, client *api.Client, userID string, jsonOut bool) {
	msgs, err := client.Chat.History(ctx, userID)
	if err != nil {
		fatal(err)
	}
	if jsonOut {
		outputJSON(msgs)
		return
	}
	if len(msgs) == 0 {
		fmt.Println("No messages yet.")
		return
	}
	for _, m := range msgs {
		fmt.Printf("%s: %s\n", m.SenderName(), m.Text)
	}
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
