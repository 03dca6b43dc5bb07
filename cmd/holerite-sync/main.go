// Command holerite-sync runs one mailbox ingestion pass and prints the
// aggregate result as JSON. It also exposes the stored-record listing and
// the employee linkage operation for callers without the HTTP layer.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/folharh/holerite-sync/internal/credential"
	"github.com/folharh/holerite-sync/internal/model"
	"github.com/folharh/holerite-sync/internal/store"
	"github.com/folharh/holerite-sync/internal/sync"
)

func main() {
	var (
		configPath    = flag.String("config", "config.yaml", "path to the YAML configuration file")
		list          = flag.Bool("list", false, "list stored holerites instead of syncing")
		linkID        = flag.String("link", "", "holerite record id to link to an employee")
		funcionarioID = flag.Int64("funcionario", 0, "employee id for -link")
		setPassword   = flag.String("set-password", "", "store the IMAP password in the OS keyring and exit")
		clearPassword = flag.Bool("clear-password", false, "remove the IMAP password from the OS keyring and exit")
		verbose       = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *setPassword != "" {
		if err := credential.Set(credential.PasswordKey, *setPassword); err != nil {
			log.Error("fatal", "error", err)
			os.Exit(1)
		}
		log.Info("password stored in keyring")
		return
	}
	if *clearPassword {
		if err := credential.Delete(credential.PasswordKey); err != nil {
			log.Error("fatal", "error", err)
			os.Exit(1)
		}
		log.Info("password removed from keyring")
		return
	}

	if err := run(*configPath, *list, *linkID, *funcionarioID, log); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string, list bool, linkID string, funcionarioID int64, log *slog.Logger) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Passwords kept out of config files can come from the OS keyring.
	if cfg.IMAP.Password == "" && cfg.IMAP.Host != "" {
		if secret, err := credential.Get(credential.PasswordKey); err == nil {
			cfg.IMAP.Password = secret
		}
	}

	st, err := store.NewSQLiteStore(cfg.Storage.DatabasePath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()

	switch {
	case list:
		records, err := st.ListAll(ctx)
		if err != nil {
			return err
		}
		return printJSON(records)

	case linkID != "":
		if err := st.LinkFuncionario(ctx, linkID, funcionarioID); err != nil {
			return err
		}
		log.Info("holerite linked", "id", linkID, "funcionario_id", funcionarioID)
		return nil

	default:
		files := store.NewFileStore(cfg.Storage.UploadDir)
		syncer := sync.NewSyncer(cfg.IMAP, st, files, log)
		result := syncer.Run(ctx)
		if err := printJSON(result); err != nil {
			return err
		}
		if !result.Success {
			return fmt.Errorf("sync failed: %s", result.Message)
		}
		return nil
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
