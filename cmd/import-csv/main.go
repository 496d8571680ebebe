package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/logger"
	"reviewhub/internal/models"
)

// import-csv bulk-loads fixture data into the database. Rows keep their
// original ids so cross-file references stay intact, and reruns are
// no-ops for rows that already exist.
func main() {
	dataDir := flag.String("data", "data", "directory containing the csv files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.GoEnv)
	slog.SetDefault(log)

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Error("database connect", "err", err)
		os.Exit(1)
	}
	defer database.Close(db)

	loaders := []struct {
		file string
		load func(*gorm.DB, [][]string) (int, error)
	}{
		{"users.csv", loadUsers},
		{"category.csv", loadCategories},
		{"genre.csv", loadGenres},
		{"titles.csv", loadTitles},
		{"genre_title.csv", loadGenreTitles},
		{"review.csv", loadReviews},
		{"comments.csv", loadComments},
	}

	for _, l := range loaders {
		path := filepath.Join(*dataDir, l.file)
		rows, err := readCSV(path)
		if err != nil {
			if os.IsNotExist(err) {
				log.Warn("file missing, skipped", "file", l.file)
				continue
			}
			log.Error("read failed", "file", l.file, "err", err)
			os.Exit(1)
		}

		n, err := l.load(db, rows)
		if err != nil {
			log.Error("import failed", "file", l.file, "err", err)
			os.Exit(1)
		}
		log.Info("imported", "file", l.file, "rows", n)
	}
}

// readCSV returns the data rows of a file, header stripped.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return r.ReadAll()
}

// insert writes rows keeping their ids; existing ids are left untouched.
func insert[T any](db *gorm.DB, rows []T) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)
	return int(result.RowsAffected), result.Error
}

// users.csv: id,username,email,role,bio,first_name,last_name
func loadUsers(db *gorm.DB, rows [][]string) (int, error) {
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("users row %q: %w", row[0], err)
		}
		role := models.Role(row[3])
		if !role.Valid() {
			role = models.RoleUser
		}
		users = append(users, models.User{
			ID:        id,
			Username:  row[1],
			Email:     row[2],
			Role:      role,
			Bio:       row[4],
			FirstName: row[5],
			LastName:  row[6],
		})
	}
	return insert(db, users)
}

// category.csv: id,name,slug
func loadCategories(db *gorm.DB, rows [][]string) (int, error) {
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("category row %q: %w", row[0], err)
		}
		categories = append(categories, models.Category{ID: id, Name: row[1], Slug: row[2]})
	}
	return insert(db, categories)
}

// genre.csv: id,name,slug
func loadGenres(db *gorm.DB, rows [][]string) (int, error) {
	genres := make([]models.Genre, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("genre row %q: %w", row[0], err)
		}
		genres = append(genres, models.Genre{ID: id, Name: row[1], Slug: row[2]})
	}
	return insert(db, genres)
}

// titles.csv: id,name,year,category
func loadTitles(db *gorm.DB, rows [][]string) (int, error) {
	titles := make([]models.Title, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("titles row %q: %w", row[0], err)
		}
		year, err := strconv.Atoi(row[2])
		if err != nil {
			return 0, fmt.Errorf("titles row %s year: %w", row[0], err)
		}
		categoryID, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("titles row %s category: %w", row[0], err)
		}
		titles = append(titles, models.Title{
			ID:         id,
			Name:       row[1],
			Year:       year,
			CategoryID: &categoryID,
		})
	}
	return insert(db, titles)
}

// genre_title.csv: id,title_id,genre_id
func loadGenreTitles(db *gorm.DB, rows [][]string) (int, error) {
	links := make([]models.GenreTitle, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("genre_title row %q: %w", row[0], err)
		}
		titleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("genre_title row %s title: %w", row[0], err)
		}
		genreID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("genre_title row %s genre: %w", row[0], err)
		}
		links = append(links, models.GenreTitle{ID: id, TitleID: titleID, GenreID: genreID})
	}
	return insert(db, links)
}

// review.csv: id,title_id,text,author,score,pub_date
func loadReviews(db *gorm.DB, rows [][]string) (int, error) {
	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("review row %q: %w", row[0], err)
		}
		titleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("review row %s title: %w", row[0], err)
		}
		authorID, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("review row %s author: %w", row[0], err)
		}
		score, err := strconv.Atoi(row[4])
		if err != nil {
			return 0, fmt.Errorf("review row %s score: %w", row[0], err)
		}
		pubDate, err := parseDate(row[5])
		if err != nil {
			return 0, fmt.Errorf("review row %s pub_date: %w", row[0], err)
		}
		reviews = append(reviews, models.Review{
			ID:       id,
			TitleID:  titleID,
			Text:     row[2],
			AuthorID: authorID,
			Score:    score,
			PubDate:  pubDate,
		})
	}
	return insert(db, reviews)
}

// comments.csv: id,review_id,text,author,pub_date
func loadComments(db *gorm.DB, rows [][]string) (int, error) {
	comments := make([]models.Comment, 0, len(rows))
	for _, row := range rows {
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("comments row %q: %w", row[0], err)
		}
		reviewID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("comments row %s review: %w", row[0], err)
		}
		authorID, err := strconv.ParseInt(row[3], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("comments row %s author: %w", row[0], err)
		}
		pubDate, err := parseDate(row[4])
		if err != nil {
			return 0, fmt.Errorf("comments row %s pub_date: %w", row[0], err)
		}
		comments = append(comments, models.Comment{
			ID:       id,
			ReviewID: reviewID,
			Text:     row[2],
			AuthorID: authorID,
			PubDate:  pubDate,
		})
	}
	return insert(db, comments)
}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
