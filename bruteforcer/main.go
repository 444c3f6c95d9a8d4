// Command bruteforcer plays Minesweeper against a running server through the REST
// API. Each attempt resets the session and applies forced moves from the visible
// numbers in batches, guessing the least risky cell only when nothing is certain.
// It keeps attempting until a game is won or the attempt budget runs out.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/minesweeper/game/engine"
	"github.com/wricardo/mcp-training/minesweeper/game/service"
)

const sessionFile = ".session"

var errStalled = errors.New("no moves available")

// attempt is the summary of one played game
type attempt struct {
	Rounds  int
	Actions int
	Guesses int
	View    *engine.BoardView
}

func main() {
	cmd := &cli.Command{
		Name:  "bruteforcer",
		Usage: "Play Minesweeper through the REST API until a game is won",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", Usage: "Game server URL"},
			&cli.StringFlag{Name: "config", Usage: "Difficulty preset (beginner, intermediate, expert, daily)"},
			&cli.IntFlag{Name: "width", Usage: "Custom board width"},
			&cli.IntFlag{Name: "height", Usage: "Custom board height"},
			&cli.IntFlag{Name: "mines", Usage: "Custom board mine count"},
			&cli.StringFlag{Name: "continue", Usage: "Resume playing an existing session by ID"},
			&cli.IntFlag{Name: "max-rounds", Value: 1000, Usage: "Maximum batches per attempt"},
			&cli.IntFlag{Name: "max-attempts", Value: 100, Usage: "Maximum attempts before giving up"},
			&cli.IntFlag{Name: "batch", Value: engine.MaxBulkActions, Usage: "Maximum actions per batch"},
			&cli.IntFlag{Name: "delay", Usage: "Delay between batches in milliseconds (0 = no delay)"},
			&cli.BoolFlag{Name: "v", Usage: "Verbose output"},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Printf("Connecting to game server at %s", cmd.String("url"))
	client := NewClient(cmd.String("url"))

	var board *service.BoardOptions
	if cmd.Int("width") != 0 || cmd.Int("height") != 0 || cmd.Int("mines") != 0 {
		board = &service.BoardOptions{Width: int(cmd.Int("width")), Height: int(cmd.Int("height")), Mines: int(cmd.Int("mines"))}
	}

	if _, err := openSession(ctx, client, cmd.String("continue"), cmd.String("config"), board); err != nil {
		return err
	}

	strategy := NewStrategy(int(cmd.Int("batch")))
	delay := time.Duration(cmd.Int("delay")) * time.Millisecond
	maxAttempts := int(cmd.Int("max-attempts"))

	for n := 1; n <= maxAttempts; n++ {
		view, err := client.Reset(ctx)
		if err != nil {
			return fmt.Errorf("failed to reset game: %w", err)
		}

		log.Printf("=== Attempt %d/%d ===", n, maxAttempts)
		result, err := play(ctx, client, strategy, view, int(cmd.Int("max-rounds")), delay, cmd.Bool("v"))
		if err != nil && !errors.Is(err, errStalled) {
			return err
		}

		log.Printf("Attempt %d: Rounds=%d, Actions=%d, Guesses=%d, Revealed=%d, Status=%s",
			n, result.Rounds, result.Actions, result.Guesses, result.View.RevealedCells, result.View.Status)

		if result.View.Status == engine.StatusWon {
			log.Printf("VICTORY! Board cleared in attempt %d with %d actions", n, result.Actions)
			log.Printf("Session: %s", client.SessionID())
			return nil
		}
	}

	log.Printf("Failed to win after %d attempts", maxAttempts)
	log.Printf("Session: %s", client.SessionID())
	return cli.Exit("no win", 1)
}

// openSession resumes the requested or saved session, or creates a new one and
// remembers its ID for the next run
func openSession(ctx context.Context, client *Client, resume, configName string, board *service.BoardOptions) (*engine.BoardView, error) {
	saved := resume
	if saved == "" {
		if data, err := os.ReadFile(sessionFile); err == nil {
			saved = string(bytes.TrimSpace(data))
		}
	}

	if saved != "" {
		view, err := client.Resume(ctx, saved)
		if err == nil {
			log.Printf("Resuming session: %s (%dx%d, %d mines)", client.SessionID(), view.Width, view.Height, view.Mines)
			return view, nil
		}
		log.Printf("Failed to resume session %s (may be expired): %v", saved, err)
	}

	view, err := client.CreateSession(ctx, configName, board)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("Session created: %s (%dx%d, %d mines)", client.SessionID(), view.Width, view.Height, view.Mines)

	if err := os.WriteFile(sessionFile, []byte(client.SessionID()), 0644); err != nil {
		log.Printf("Warning: Failed to save session ID: %v", err)
	}
	return view, nil
}

// play sends batches chosen by strategy until the game ends or maxRounds is reached
func play(ctx context.Context, client *Client, strategy *Strategy, view *engine.BoardView, maxRounds int, delay time.Duration, verbose bool) (*attempt, error) {
	result := &attempt{View: view}
	startGuesses := strategy.Guesses
	defer func() { result.Guesses = strategy.Guesses - startGuesses }()

	for result.Rounds < maxRounds && result.View.Status == engine.StatusPlay {
		actions := strategy.NextMoves(result.View)
		if len(actions) == 0 {
			return result, errStalled
		}

		if verbose {
			log.Printf("Round %d: %s", result.Rounds+1, describe(actions))
		}

		batch, err := client.Batch(ctx, actions)
		if err != nil {
			return result, err
		}
		result.Rounds++
		result.Actions += batch.ActionsExecuted
		result.View = batch.View

		if delay > 0 {
			select {
			case <-ctx.Done():
				return result, ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return result, nil
}

func describe(actions []service.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = fmt.Sprintf("%s(%d,%d)", a.Action, a.X, a.Y)
	}
	return strings.Join(parts, " ")
}
