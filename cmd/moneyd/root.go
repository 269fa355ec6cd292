package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	currency "github.com/goliatone/go-currency"
	"github.com/goliatone/go-currency/core"
	"github.com/goliatone/go-currency/inbound"
	"github.com/goliatone/go-currency/telemetry"
	"github.com/goliatone/go-currency/transport"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath     string
	logLevel       string
	moneyServerURL string
	userServerURL  string
	listenAddr     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "moneyd",
		Short:        "Region side money module and callback server",
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a JSON config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.moneyServerURL, "money-server", "", "money server JSON-RPC endpoint")
	root.PersistentFlags().StringVar(&opts.userServerURL, "user-server", "", "user server URL sent with ledger calls")

	root.AddCommand(
		newServeCmd(opts),
		newBalanceCmd(opts),
		newTransactionCmd(opts),
		newTokenCmd(),
		newConfigCmd(opts),
	)
	return root
}

// buildService resolves configuration from the file, the flags and defaults
// and returns a service wired to the JSON-RPC ledger.
func (o *rootOptions) buildService(stderr io.Writer) (*core.Service, fileConfig, error) {
	file, err := loadConfigFile(o.configPath)
	if err != nil {
		return nil, file, err
	}
	runtime := core.Config{
		MoneyServerURL: o.moneyServerURL,
		UserServerURL:  o.userServerURL,
	}
	if o.listenAddr != "" {
		runtime.Callback.ListenAddr = o.listenAddr
	}
	registry := transport.NewDefaultRegistry()
	svc, err := currency.NewService(runtime,
		currency.WithLogger(newLogger(stderr, o.logLevel)),
		currency.WithConfigProvider(file.provider()),
		currency.WithLedgerFactory(func(cfg core.Config) (core.LedgerCaller, error) {
			return transport.ForConfig(registry, cfg)
		}),
	)
	return svc, file, err
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve money server callbacks over JSON-RPC",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			file, err := loadConfigFile(opts.configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Init(ctx, file.telemetry)
			if err != nil {
				return err
			}
			defer func() {
				flushCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
				defer cancel()
				_ = shutdown(flushCtx)
			}()

			runtime := core.Config{MoneyServerURL: opts.moneyServerURL, UserServerURL: opts.userServerURL}
			runtime.Callback.ListenAddr = opts.listenAddr
			module, err := currency.NewModule(runtime,
				currency.WithTracer(telemetry.Tracer()),
				currency.WithServiceOptions(
					currency.WithLogger(newLogger(cmd.ErrOrStderr(), opts.logLevel)),
					currency.WithConfigProvider(file.provider()),
				),
			)
			if err != nil {
				return err
			}
			return module.Serve(ctx)
		},
	}
	cmd.Flags().StringVar(&opts.listenAddr, "listen", "", "callback listen address (default "+inbound.DefaultListenAddr+")")
	return cmd
}

type sessionFlags struct {
	userID          string
	sessionID       string
	secureSessionID string
}

func (f *sessionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.userID, "user", "", "avatar UUID")
	cmd.Flags().StringVar(&f.sessionID, "session", "", "session UUID")
	cmd.Flags().StringVar(&f.secureSessionID, "secure-session", "", "secure session UUID")
	_ = cmd.MarkFlagRequired("user")
}

func (f *sessionFlags) credential() (core.SessionCredential, error) {
	var cred core.SessionCredential
	var err error
	if cred.UserID, err = uuid.Parse(f.userID); err != nil {
		return cred, fmt.Errorf("invalid --user: %w", err)
	}
	if f.sessionID != "" {
		if cred.SessionID, err = uuid.Parse(f.sessionID); err != nil {
			return cred, fmt.Errorf("invalid --session: %w", err)
		}
	}
	if f.secureSessionID != "" {
		if cred.SecureSessionID, err = uuid.Parse(f.secureSessionID); err != nil {
			return cred, fmt.Errorf("invalid --secure-session: %w", err)
		}
	}
	return cred, nil
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	flags := &sessionFlags{}
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Ask the money server for an avatar's balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cred, err := flags.credential()
			if err != nil {
				return err
			}
			svc, _, err := opts.buildService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			balance, err := svc.QueryBalance(cmd.Context(), cliClient{cred: cred})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"user_id": cred.UserID.String(),
				"balance": balance,
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newTransactionCmd(opts *rootOptions) *cobra.Command {
	flags := &sessionFlags{}
	var transactionID string
	cmd := &cobra.Command{
		Use:   "transaction",
		Short: "Look up one ledger transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cred, err := flags.credential()
			if err != nil {
				return err
			}
			txID, err := uuid.Parse(transactionID)
			if err != nil {
				return fmt.Errorf("invalid --id: %w", err)
			}
			svc, _, err := opts.buildService(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			record, err := svc.GetTransaction(cmd.Context(), cliClient{cred: cred}, txID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"transaction_id": record.TransactionID.String(),
				"amount":         record.Amount,
				"type":           record.Kind.String(),
				"description":    record.Description,
				"sender":         record.Sender.String(),
				"receiver":       record.Receiver.String(),
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&transactionID, "id", "", "transaction UUID")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var secret, ip string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the SendMoneyBalance token for a secret and server address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), inbound.SecretToken(secret, ip))
			return err
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "shared secret")
	cmd.Flags().StringVar(&ip, "ip", "", "money server address as seen by the region")
	_ = cmd.MarkFlagRequired("secret")
	_ = cmd.MarkFlagRequired("ip")
	return cmd
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, file, err := opts.buildService(io.Discard)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"currency":  svc.Config(),
				"telemetry": file.telemetry,
			})
		},
	}
}

func writeJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
