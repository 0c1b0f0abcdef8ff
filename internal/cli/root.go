package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/topupadmin/internal/cache"
	"github.com/example/topupadmin/internal/config"
	"github.com/example/topupadmin/internal/database"
	"github.com/example/topupadmin/internal/services"
)

type options struct {
	apiURL   string
	token    string
	operator string
	timeout  time.Duration
	asJSON   bool
	noAudit  bool
}

// console holds the services a command runs against. It is built once flags
// are parsed.
type console struct {
	opts         options
	orders       *services.OrderService
	topups       *services.TopupQueueService
	transactions *services.TransactionService
}

// NewRootCommand builds the topupctl command tree. Flag defaults come from cfg.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	con := &console{}

	rootCmd := &cobra.Command{
		Use:   "topupctl",
		Short: "Operator console for orders, top-up retries and transactions",
		Long: `topupctl talks to the platform admin API with the console's service token.

Order transitions go through the lifecycle gate; bulk transaction overrides
ask for confirmation unless --yes is given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return con.init(cfg)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			// Telegram alerts are sent in the background; do not exit before they land.
			if con.transactions != nil {
				con.transactions.Wait()
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&con.opts.apiURL, "api-url", cfg.PlatformAPIURL, "Platform API base URL")
	flags.StringVar(&con.opts.token, "token", cfg.PlatformAPIToken, "Platform service token")
	flags.StringVar(&con.opts.operator, "operator", defaultOperator(), "Operator name recorded in the audit log")
	flags.DurationVar(&con.opts.timeout, "timeout", cfg.PlatformTimeout, "Request timeout (0 waits indefinitely)")
	flags.BoolVarP(&con.opts.asJSON, "json", "j", false, "Output as JSON")
	flags.BoolVar(&con.opts.noAudit, "no-audit", !cfg.AuditEnabled, "Do not write to the audit log")

	rootCmd.AddCommand(orderCmd(con))
	rootCmd.AddCommand(topupsCmd(con))
	rootCmd.AddCommand(txCmd(con))

	return rootCmd
}

// Execute runs topupctl with configuration from the environment.
func Execute(version string) error {
	rootCmd := NewRootCommand(config.Load())
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (c *console) init(cfg *config.Config) error {
	if c.opts.apiURL == "" {
		return errors.New("--api-url or PLATFORM_API_URL is required")
	}

	auditor := services.NopAuditor()
	if !c.opts.noAudit {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open audit database (use --no-audit to skip): %w", err)
		}
		auditor = services.NewAuditService(db)
	}

	var notifier services.Notifier
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat).WithAPIBase(cfg.TelegramAPIURL)
	if telegram.Enabled() {
		notifier = telegram
	}

	client := services.NewPlatformClient(c.opts.apiURL, c.opts.token, c.opts.timeout)
	queryCache := cache.New()

	c.orders = services.NewOrderService(client, queryCache, auditor)
	c.topups = services.NewTopupQueueService(client, queryCache)
	c.transactions = services.NewTransactionService(client, queryCache, auditor, notifier)
	return nil
}

func defaultOperator() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "cli"
}
