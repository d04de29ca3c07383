package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/adviceboard/adviceboard/internal/advice"
	"github.com/adviceboard/adviceboard/internal/api"
	"github.com/adviceboard/adviceboard/internal/config"
	"github.com/adviceboard/adviceboard/internal/domain"
	"github.com/adviceboard/adviceboard/internal/session"
	"github.com/adviceboard/adviceboard/internal/tui"
)

// Command flags
var (
	serverURL    string
	outputFormat string
	assumeYes    bool

	listMine   bool
	listUser   string
	postTitle  string
	postBody   string
	anonymous  bool
	searchIn   string
	anonOnly   bool
	loginEmail string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "API base URL (overrides the config file)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(replyCmd)
	rootCmd.AddCommand(deleteReplyCmd)
}

// buildDeps assembles the shared services from the config file, token file,
// and flags. interactive selects a terminal y/N prompt for destructive
// actions; --yes or non-interactive callers skip it.
func buildDeps(interactive bool) (tui.Deps, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return tui.Deps{}, fmt.Errorf("failed to load settings: %w", err)
	}

	baseURL := settings.ServerBaseURL()
	if serverURL != "" {
		baseURL = serverURL
	}

	tokenPath, err := config.GetTokenPath()
	if err != nil {
		return tui.Deps{}, err
	}
	sess, err := session.Load(tokenPath)
	if err != nil {
		return tui.Deps{}, err
	}

	client := api.NewClient(baseURL, sess)

	var confirm advice.ConfirmFunc
	if confirmEnabled(interactive, settings) {
		confirm = promptConfirm
	}

	return tui.Deps{
		Client:  client,
		Actions: advice.NewActions(client, confirm),
		Session: sess,
	}, nil
}

// confirmEnabled decides whether destructive commands prompt: only for
// interactive commands, and both the --yes flag and the confirm_deletes
// preference can turn the prompt off.
func confirmEnabled(interactive bool, settings *config.Settings) bool {
	return interactive && !assumeYes && settings.ConfirmDeletes()
}

// promptConfirm asks a y/N question on the terminal.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(input))
	return answer == "y" || answer == "yes"
}

// readPassword prompts for a password without echoing.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(data), nil
}

// cliError unwraps an action failure to its user-facing message.
func cliError(err error) error {
	if advice.IsCancelled(err) {
		fmt.Println("Cancelled.")
		return nil
	}
	return fmt.Errorf("%s", advice.UserMessage(err))
}

// runTUI launches the interactive interface (the default command).
func runTUI(cmd *cobra.Command, args []string) error {
	// The TUI confirms destructive actions with its own modal.
	deps, err := buildDeps(false)
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewAppModel(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("interface error: %w", err)
	}
	return nil
}

// loginCmd authenticates and stores the token
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	Example: `  # Prompted for the password
  adviceboard login --email you@example.com

  # Prompted for both
  adviceboard login`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(false)
	if err != nil {
		return err
	}

	email := loginEmail
	if email == "" {
		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	token, err := deps.Actions.Login(context.Background(), email, password)
	if err != nil {
		return cliError(err)
	}
	if err := deps.Session.SetToken(token); err != nil {
		return err
	}

	name := deps.Session.Username()
	if name == "" {
		name = email
	}
	fmt.Printf("✓ Logged in as %s\n", name)
	return nil
}

// registerCmd creates a new account
var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create a new account",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		if _, err := deps.Actions.Register(context.Background(), args[0], args[1], password); err != nil {
			return cliError(err)
		}
		fmt.Println("✓ Account created. Run 'adviceboard login' to sign in.")
		return nil
	},
}

// logoutCmd removes the stored token
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		if err := deps.Session.Clear(); err != nil {
			return err
		}
		fmt.Println("✓ Logged out")
		return nil
	},
}

// whoamiCmd prints the identity decoded from the stored token
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		if !deps.Session.Authenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		id, ok := deps.Session.Identity()
		if !ok {
			fmt.Println("Logged in (token present, identity unknown).")
			return nil
		}
		fmt.Printf("Logged in as %s (id %s)\n", id.Username, id.UserID)
		return nil
	},
}

// listCmd lists advices
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts",
	Example: `  # All posts
  adviceboard list

  # Only your own
  adviceboard list --mine

  # Posts by a specific user
  adviceboard list --user 64aa01

  # JSON output for scripting
  adviceboard list --format json`,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listMine, "mine", false, "List only your own posts")
	listCmd.Flags().StringVar(&listUser, "user", "", "List posts by the given user id")
}

func runList(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(false)
	if err != nil {
		return err
	}
	ctx := context.Background()

	var advices []domain.Advice
	switch {
	case listMine:
		if !deps.Session.Authenticated() {
			return fmt.Errorf("not logged in")
		}
		// The server marks _isMine per item for the caller's session.
		advices, err = deps.Client.ListAdvices(ctx)
		if err == nil {
			advices = domain.OnlyMine(advices)
		}
	case listUser != "":
		advices, err = deps.Client.ListAdvicesByUser(ctx, listUser)
	default:
		advices, err = deps.Client.ListAdvices(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	return printAdvices(advices)
}

// showCmd displays one post with its replies
var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a post and its replies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		a, err := deps.Client.GetAdvice(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch post: %w", err)
		}
		return printAdvice(*a)
	},
}

// searchCmd runs a server-side search
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search posts",
	Long: `Search posts server-side.

By default the query matches both title and content; --in narrows it.
--anonymous-only lists anonymous posts instead and ignores the query.`,
	Example: `  # Match title and content
  adviceboard search "blue screen"

  # Title only
  adviceboard search "boot loop" --in title

  # Anonymous posts
  adviceboard search --anonymous-only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchIn, "in", "title,content", "Fields to match (title, content, or title,content)")
	searchCmd.Flags().BoolVar(&anonOnly, "anonymous-only", false, "List anonymous posts (ignores the query)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	deps, err := buildDeps(false)
	if err != nil {
		return err
	}

	filter := advice.Filter{AnonymousOnly: anonOnly}
	if len(args) > 0 {
		filter.Query = args[0]
	}
	for _, field := range strings.Split(searchIn, ",") {
		switch strings.TrimSpace(field) {
		case "title":
			filter.Title = true
		case "content":
			filter.Content = true
		case "":
		default:
			return fmt.Errorf("unknown search field %q (use title, content)", field)
		}
	}

	if filter.IsEmpty() {
		return fmt.Errorf("nothing to search for; pass a query or --anonymous-only")
	}

	advices, err := deps.Client.SearchAdvices(context.Background(), filter.Values())
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Filter: %s\n\n", filter.Label())
	return printAdvices(advices)
}

// createCmd creates a new post
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new post",
	Example: `  adviceboard create --title "PC won't boot" --content "It beeps three times and stops."

  # Post anonymously
  adviceboard create --title "..." --content "..." --anonymous`,
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		form := domain.AdviceForm{Title: postTitle, Content: postBody, Anonymous: anonymous}
		created, err := deps.Actions.CreateAdvice(context.Background(), form)
		if err != nil {
			return cliError(err)
		}
		fmt.Printf("✓ Created post %s\n", created.ID)
		return nil
	},
}

// editCmd updates an existing post
var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		form := domain.AdviceForm{Title: postTitle, Content: postBody, Anonymous: anonymous}
		updated, err := deps.Actions.UpdateAdvice(context.Background(), args[0], form)
		if err != nil {
			return cliError(err)
		}
		fmt.Printf("✓ Updated post %s\n", updated.ID)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createCmd, editCmd} {
		c.Flags().StringVar(&postTitle, "title", "", "Post title")
		c.Flags().StringVar(&postBody, "content", "", "Post content")
		c.Flags().BoolVar(&anonymous, "anonymous", false, "Hide your name on the post")
	}
}

// deleteCmd deletes a post
var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete one of your posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(true)
		if err != nil {
			return err
		}
		id, err := deps.Actions.DeleteAdvice(context.Background(), args[0])
		if err != nil {
			return cliError(err)
		}
		if id != "" {
			fmt.Printf("✓ Deleted post %s\n", id)
		}
		return nil
	},
}

// replyCmd adds a reply to a post
var replyCmd = &cobra.Command{
	Use:   "reply <id>",
	Short: "Reply to a post",
	Example: `  adviceboard reply 64ab42 --content "Reseat the RAM and try again."

  # Reply anonymously
  adviceboard reply 64ab42 --content "..." --anonymous`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(false)
		if err != nil {
			return err
		}
		form := domain.ReplyForm{Content: postBody, Anonymous: anonymous}
		updated, err := deps.Actions.AddReply(context.Background(), args[0], form)
		if err != nil {
			return cliError(err)
		}
		fmt.Printf("✓ Replied to %q (%d replies)\n", updated.Title, len(updated.Replies))
		return nil
	},
}

func init() {
	replyCmd.Flags().StringVar(&postBody, "content", "", "Reply content")
	replyCmd.Flags().BoolVar(&anonymous, "anonymous", false, "Hide your name on the reply")
}

// deleteReplyCmd removes a reply
var deleteReplyCmd = &cobra.Command{
	Use:   "delete-reply <post-id> <reply-id>",
	Short: "Delete one of your replies",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, err := buildDeps(true)
		if err != nil {
			return err
		}
		id, err := deps.Actions.DeleteReply(context.Background(), args[0], args[1])
		if err != nil {
			return cliError(err)
		}
		if id != "" {
			fmt.Printf("✓ Deleted reply %s\n", id)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{deleteCmd, deleteReplyCmd} {
		c.Flags().BoolVar(&assumeYes, "yes", false, "Skip the confirmation prompt")
	}
}

// printAdvices renders a list of posts in the selected format.
func printAdvices(advices []domain.Advice) error {
	if outputFormat == "json" {
		data, err := json.MarshalIndent(advices, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	if len(advices) == 0 {
		fmt.Println("No posts found.")
		return nil
	}

	for _, a := range advices {
		switch outputFormat {
		case "compact":
			fmt.Printf("%s  %-40s  by %s (%d replies)\n",
				a.ID, truncate(a.Title, 40), a.CreatedBy.Label(a.Anonymous), len(a.Replies))
		default:
			printAdviceHeader(a)
			fmt.Println()
		}
	}
	return nil
}

// printAdvice renders one post with its replies.
func printAdvice(a domain.Advice) error {
	if outputFormat == "json" {
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	printAdviceHeader(a)
	fmt.Println()
	fmt.Println(a.Content)
	fmt.Println()

	fmt.Printf("Replies (%d):\n", len(a.Replies))
	for _, r := range a.Replies {
		fmt.Printf("  [%s] %s - %s\n", r.ID, r.Content, r.CreatedBy.Label(r.Anonymous))
	}
	return nil
}

func printAdviceHeader(a domain.Advice) {
	mine := ""
	if a.IsMine {
		mine = " [mine]"
	}
	fmt.Printf("%s%s\n", a.Title, mine)
	fmt.Printf("  id: %s  by %s", a.ID, a.CreatedBy.Label(a.Anonymous))
	if !a.CreatedAt.IsZero() {
		fmt.Printf("  on %s", a.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Printf("  (%d replies)\n", len(a.Replies))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
