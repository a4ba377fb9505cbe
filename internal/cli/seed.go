package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quiz-scoring-service/internal/app"
	"quiz-scoring-service/internal/domain"
)

type seedFile struct {
	Quizzes []domain.Quiz `yaml:"quizzes"`
}

// seedFlags tells an omitted isActive apart from an explicit false.
type seedFlags struct {
	Quizzes []struct {
		IsActive *bool `yaml:"isActive"`
	} `yaml:"quizzes"`
}

// NewSeedCmd loads quizzes from a YAML file through the validated write path.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load quizzes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.Seed.Path
			}
			if file == "" {
				return fmt.Errorf("no seed file given")
			}

			svc, err := buildServices(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			n, err := seedQuizzes(cmd.Context(), svc.quizzes, file)
			if err != nil {
				return err
			}
			slog.Info("seed completed", "quizzes", n, "file", file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML file with quizzes (defaults to seed.path)")
	return cmd
}

func seedQuizzes(ctx context.Context, service *app.QuizService, path string) (int, error) {
	quizzes, err := loadSeedFile(path)
	if err != nil {
		return 0, err
	}
	for _, quiz := range quizzes {
		saved, err := service.SaveQuiz(ctx, quiz)
		if err != nil {
			return 0, fmt.Errorf("seed quiz %q: %w", quiz.Title, err)
		}
		slog.Debug("seeded quiz", "id", saved.ID, "title", saved.Title, "questions", saved.QuestionCount())
	}
	return len(quizzes), nil
}

// loadSeedFile parses the seed YAML. Quizzes are active unless isActive is
// set to false, and questions without an explicit order get their position
// in the file.
func loadSeedFile(path string) ([]domain.Quiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	var flags seedFlags
	if err := yaml.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	for i := range file.Quizzes {
		if i < len(flags.Quizzes) && flags.Quizzes[i].IsActive == nil {
			file.Quizzes[i].IsActive = true
		}
		for j := range file.Quizzes[i].Questions {
			if file.Quizzes[i].Questions[j].Order == 0 {
				file.Quizzes[i].Questions[j].Order = j + 1
			}
		}
	}
	return file.Quizzes, nil
}
