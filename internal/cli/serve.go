package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/gateway"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/observability"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/internal/store"
	"github.com/madschaaf/ai-dev-tools-demo-sub002/pkg/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the submission wizard API",
	Long: `Serve starts the HTTP API for the submission wizard. Sessions and finished
submissions are kept in SQLite. Enabled Telegram and Discord gateways are
told about every submission.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address, overriding the config")
}

func serve(ctx context.Context, cfg *config.Config) error {
	httpCfg, ok := cfg.GetGateway("http")
	if serveAddr != "" {
		httpCfg.Addr = serveAddr
	} else if !ok {
		return fmt.Errorf("HTTP gateway is not enabled")
	}

	interactive := observability.IsTerminal() && !jsonOutput
	if interactive {
		observability.PrintBanner()
		observability.InitializeTerminal()
		defer observability.CleanupTerminal()
		log.SetOutput(observability.NewTermWriter())
	}

	logger := observability.NewLogger(nil)
	logger.SetLLMLogPath(cfg.Logging.LLMLogPath)

	st, err := store.Open(cfg.Memory.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	controller, res, err := newController(cfg, logger)
	if err != nil {
		return err
	}
	provider, closeFetchers, err := newAutofillProvider(cfg, res, logger)
	if err != nil {
		return err
	}
	defer closeFetchers()
	if provider.Extractor == nil {
		log.Printf("No LLM provider enabled; only JSON and YAML autofill documents are accepted")
	}

	sink := &gateway.NotifyingSink{Next: st.Submissions()}
	messengers, err := startMessengers(cfg, sink)
	if err != nil {
		return err
	}
	defer func() {
		for _, m := range messengers {
			if err := m.Stop(); err != nil {
				log.Printf("gateway stop failed: %v", err)
			}
		}
	}()

	srv := gateway.NewHTTPGateway(httpCfg.Addr, controller, st.Sessions(), provider, sink, logger)
	srv.Metrics = observability.NewMetrics("onboard")
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	if interactive {
		go func() {
			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					observability.PrintLiveStatus()
				}
			}
		}()
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	if err := srv.Stop(); err != nil {
		return err
	}
	log.Println("Server stopped")
	return nil
}

// startMessengers starts the enabled chat gateways and adds each configured
// chat as a notification target of sink.
func startMessengers(cfg *config.Config, sink *gateway.NotifyingSink) ([]gateway.Messenger, error) {
	var started []gateway.Messenger

	if tgCfg, ok := cfg.GetGateway("telegram"); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token)
		if err != nil {
			return started, fmt.Errorf("telegram gateway: %w", err)
		}
		go func() {
			if err := tg.Start(); err != nil {
				log.Printf("telegram gateway stopped: %v", err)
			}
		}()
		started = append(started, tg)
		if tgCfg.ChatID != "" {
			sink.Targets = append(sink.Targets, gateway.Target{Messenger: tg, ChatID: tgCfg.ChatID})
		} else {
			log.Printf("Telegram chat_id is not set; send /chatid to the bot to find it")
		}
	}

	if dcCfg, ok := cfg.GetGateway("discord"); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token)
		if err != nil {
			return started, fmt.Errorf("discord gateway: %w", err)
		}
		if err := dc.Start(); err != nil {
			return started, fmt.Errorf("discord gateway: %w", err)
		}
		started = append(started, dc)
		if dcCfg.ChannelID != "" {
			sink.Targets = append(sink.Targets, gateway.Target{Messenger: dc, ChatID: dcCfg.ChannelID})
		}
	}
	return started, nil
}
