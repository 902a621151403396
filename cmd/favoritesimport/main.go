// Command favoritesimport copies the flat-file favorites into the database
// store selected by FAVORITES_DRIVER. Entries already present are skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"moviefav/errs"
	"moviefav/filestore"
	"moviefav/movie"
	"moviefav/pkg/config"
	"moviefav/pkg/logger"
	"moviefav/pkg/repository"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "", "directory holding favorites.json (default FAVORITES_DATA_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	l, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("cannot init logger: %v", err)
	}

	if *dir == "" {
		*dir = cfg.Favorites.DataDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg, *dir, l)
	stop()
	_ = l.Sync()
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, dir string, l *zap.SugaredLogger) error {
	if cfg.Favorites.Driver == config.DriverFile {
		return fmt.Errorf("FAVORITES_DRIVER must name a database store, got %q", cfg.Favorites.Driver)
	}

	// Open would create an empty file; importing from nothing is a mistake.
	path := filepath.Join(dir, filestore.DefaultFileName)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("favorites file: %w", err)
	}

	src, err := filestore.Open(filestore.Options{Dir: dir, Logger: l})
	if err != nil {
		return fmt.Errorf("open favorites file: %w", err)
	}

	dst, closeDst, err := repository.Open(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("open %s favorites store: %w", cfg.Favorites.Driver, err)
	}
	defer func() {
		if err := closeDst(); err != nil {
			l.Errorw("close favorites store", "error", err)
		}
	}()

	total, err := src.Count(ctx)
	if err != nil {
		return err
	}
	l.Infow("importing favorites", "source", src.Path(), "total", total, "driver", cfg.Favorites.Driver)

	added, skipped, err := importFavorites(ctx, src, dst, l)
	if err != nil {
		return fmt.Errorf("after %d added, %d skipped: %w", added, skipped, err)
	}
	l.Infow("import finished", "source", src.Path(), "total", total, "added", added, "skipped", skipped)
	return nil
}

type source interface {
	FindAll(ctx context.Context) ([]movie.Favorite, error)
}

// importFavorites adds every favorite of src to dst in order. Conflicts are
// counted as skipped; any other error stops the import.
func importFavorites(ctx context.Context, src source, dst movie.FavoriteRepository, l *zap.SugaredLogger) (added, skipped int, err error) {
	favorites, err := src.FindAll(ctx)
	if err != nil {
		return 0, 0, err
	}

	for _, f := range favorites {
		if err := ctx.Err(); err != nil {
			return added, skipped, err
		}
		err := dst.Add(ctx, f)
		switch {
		case err == nil:
			added++
		case errs.ErrorCode(err) == errs.ECONFLICT:
			l.Debugw("skip existing favorite", "imdbID", f.ImdbID)
			skipped++
		default:
			return added, skipped, err
		}
	}
	return added, skipped, nil
}
