package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lachiem1/paydown/internal/state"
	"github.com/lachiem1/paydown/internal/storage"
	"github.com/lachiem1/paydown/internal/tui"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) >= 2 && os.Args[1] == "reset" {
		if err := runReset(); err != nil {
			fmt.Fprintf(os.Stderr, "reset error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "paydown error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	db, _, err := storage.Open(ctx)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	store := state.New(storage.NewStateRepo(db))

	program := tea.NewProgram(tui.New(store), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// runReset clears everything through the store, then removes the database
// files themselves so a key rotation cannot leave stale ciphertext behind.
func runReset() error {
	if err := confirmReset(); err != nil {
		return err
	}

	ctx := context.Background()
	db, _, err := storage.Open(ctx)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}

	store := state.New(storage.NewStateRepo(db))
	if err := store.ResetEverything(ctx); err != nil {
		db.Close()
		return err
	}
	if err := db.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}

	cfg, err := storage.Wipe()
	if err != nil {
		return err
	}
	fmt.Printf("Removed saved data at %s.\n", cfg.Path)
	return nil
}

func confirmReset() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		// Scripted use must opt in explicitly instead of answering a prompt.
		for _, arg := range os.Args[2:] {
			if arg == "--yes" {
				return nil
			}
		}
		return errors.New("refusing to reset without a terminal; pass --yes to confirm")
	}

	fmt.Print("This deletes all saved paydown data. Type yes to continue: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if strings.ToLower(strings.TrimSpace(line)) != "yes" {
		return errors.New("reset cancelled")
	}
	return nil
}
