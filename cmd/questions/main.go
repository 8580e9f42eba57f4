// Package main provides a read-only report CLI over the questions database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/questions/internal/config"
	"github.com/thebtf/questions/internal/db/sqlite"
	"github.com/thebtf/questions/pkg/models"
)

// Version is set at build time via ldflags.
var Version = "dev"

const usage = `usage: questions [flags] <command> [args]

commands:
  most-liked N             top N questions by likes
  most-followed N          top N questions by followers
  karma [USER_ID]          average karma of one user, or of every author
  search-questions KEYWORD questions whose title contains KEYWORD
  search-replies KEYWORD   replies whose body contains KEYWORD
  thread QUESTION_ID       a question with its author, like count and replies
`

var errUsage = errors.New("invalid usage")

func main() {
	dbPath := flag.String("db", "", "Database file (defaults to the configured path)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Get()
	setupLogging(cfg.LogLevel, *debug)

	if *dbPath != "" {
		cfg.DBPath = *dbPath
	} else if err := config.EnsureDataDir(); err != nil {
		log.Fatal().Err(err).Msg("Failed to create data directory")
	}

	log.Debug().Str("version", Version).Str("db", cfg.DBPath).Msg("Starting questions")

	store, err := sqlite.NewStore(sqlite.StoreConfig{
		Path:          cfg.DBPath,
		BusyTimeoutMs: cfg.BusyTimeoutMs,
		WALMode:       cfg.WALMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer store.Close()

	if err := run(context.Background(), store, flag.Args(), os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
		}
		log.Error().Err(err).Msg("Command failed")
		_ = store.Close()
		os.Exit(1)
	}
}

func setupLogging(level string, debug bool) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	// stdout carries the JSON report, so logs go to stderr
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true})
}

// run executes one command and writes its result to out as indented JSON.
func run(ctx context.Context, store *sqlite.Store, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	result, err := dispatch(ctx, store, args[0], args[1:])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func dispatch(ctx context.Context, store *sqlite.Store, cmd string, args []string) (any, error) {
	questions := sqlite.NewQuestionStore(store)

	switch cmd {
	case "most-liked":
		n, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return questions.MostLiked(ctx, int(n))

	case "most-followed":
		n, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return questions.MostFollowed(ctx, int(n))

	case "karma":
		users := sqlite.NewUserStore(store)
		if len(args) == 0 {
			return users.AverageKarmaByAuthor(ctx)
		}
		id, err := intArg(args)
		if err != nil {
			return nil, err
		}
		karma, err := users.AverageKarma(ctx, &models.User{ID: id})
		if err != nil {
			return nil, err
		}
		return models.AuthorKarma{AuthorID: id, AverageKarma: karma}, nil

	case "search-questions":
		if len(args) != 1 {
			return nil, errUsage
		}
		return questions.FindByKeywordInTitle(ctx, args[0])

	case "search-replies":
		if len(args) != 1 {
			return nil, errUsage
		}
		return sqlite.NewReplyStore(store).FindByKeywordInBody(ctx, args[0])

	case "thread":
		id, err := intArg(args)
		if err != nil {
			return nil, err
		}
		return loadThread(ctx, questions, id)
	}

	return nil, fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

// thread is the JSON shape of the thread command.
type thread struct {
	Question *models.Question `json:"question"`
	Author   *models.User     `json:"author"`
	Replies  []*models.Reply  `json:"replies"`
	NumLikes int64            `json:"num_likes"`
}

func loadThread(ctx context.Context, questions *sqlite.QuestionStore, id int64) (*thread, error) {
	q, err := questions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("question %d not found", id)
	}

	t := &thread{Question: q}
	if t.Author, err = questions.Author(ctx, q); err != nil {
		return nil, err
	}
	if t.NumLikes, err = questions.NumLikes(ctx, q); err != nil {
		return nil, err
	}
	if t.Replies, err = questions.Replies(ctx, q); err != nil {
		return nil, err
	}
	return t, nil
}

func intArg(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	n, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}
