package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/catalog"
	"github.com/spigell/resume-matcher/internal/document"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/ner"
	"github.com/spigell/resume-matcher/internal/ner/gemini"
	"github.com/spigell/resume-matcher/internal/profile"
	"github.com/spigell/resume-matcher/internal/report"
	"github.com/spigell/resume-matcher/internal/screening"
	"github.com/spigell/resume-matcher/internal/secrets"
)

const geminiAPIKeyEnv = "GEMINI_API_KEY"

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Parse a resume and score it against a job role",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "resume file to parse (.pdf or .docx)")
	matchCmd.Flags().String("role", "", "job role to match against. Asked interactively when empty")
	matchCmd.Flags().StringP("output", "o", "", "report format: text, json or yaml")

	matchCmd.MarkFlagRequired("resume")

	viper.BindPFlag("output", matchCmd.Flags().Lookup("output"))
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	path := strings.TrimSpace(cmd.Flag("resume").Value.String())
	if _, err := document.FormatFromFilename(path); err != nil {
		logger.Fatal("rejecting resume", zap.Error(err), zap.Strings("accepted", document.SupportedExtensions()))
	}

	format, err := report.ParseFormat(config.Output)
	if err != nil {
		logger.Fatal("parsing output format", zap.Error(err))
	}

	roles, err := loadCatalog()
	if err != nil {
		logger.Fatal("loading role catalog", zap.Error(err))
	}

	role := strings.TrimSpace(cmd.Flag("role").Value.String())
	if role == "" {
		role, err = selectRole(roles)
		if err != nil {
			logger.Fatal("selecting a role", zap.Error(err))
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading resume", zap.String("path", path), zap.Error(err))
	}

	recognizer := ner.NewHandle(func() (ner.Recognizer, error) {
		return newRecognizer(ctx, config.NER, logger)
	})

	screener := screening.New(&screening.Config{
		SuggestBelow: config.Suggestions.BelowScore,
	}, screening.Deps{
		Catalog:   roles,
		Extractor: profile.NewExtractor(recognizer, nil),
		Logger:    logger,
	})

	result, err := screener.Run(ctx, document.Upload{Filename: filepath.Base(path), Data: data}, role)
	if err != nil {
		logger.Fatal("screening resume", zap.String("path", path), zap.Error(err))
	}

	if err := report.Render(cmd.OutOrStdout(), format, result); err != nil {
		logger.Fatal("rendering report", zap.Error(err))
	}
}

// loadCatalog returns the roles configured under "roles" or the built-in catalog.
func loadCatalog() (*catalog.Catalog, error) {
	raw := viper.Get("roles")
	if raw == nil {
		return catalog.Default(), nil
	}

	return catalog.Decode(raw)
}

func selectRole(roles *catalog.Catalog) (string, error) {
	prompt := promptui.Select{
		Label: "Select Job Role",
		Items: roles.Names(),
		Size:  roles.Len(),
	}

	_, role, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return role, nil
}

func newRecognizer(ctx context.Context, cfg *NERConfig, log *zap.Logger) (ner.Recognizer, error) {
	provider := ner.ProviderProse
	if cfg != nil && strings.TrimSpace(cfg.Provider) != "" {
		provider = strings.TrimSpace(strings.ToLower(cfg.Provider))
	}

	switch provider {
	case ner.ProviderProse:
		logger.WithRecognizer(log, provider, "").Debug("using local entity recognizer")
		return ner.NewProse(), nil
	case gemini.Provider:
		return newGeminiRecognizer(ctx, cfg.Gemini, log)
	default:
		return nil, fmt.Errorf("unsupported ner provider: %s", provider)
	}
}

func newGeminiRecognizer(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (ner.Recognizer, error) {
	if cfg == nil {
		cfg = &GeminiConfig{}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Value: cfg.APIKey,
		Env:   geminiAPIKeyEnv,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ner.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model)
	if err != nil {
		return nil, err
	}

	recLogger := logger.WithRecognizer(log, gemini.Provider, generator.Model())
	recLogger.Debug("using gemini entity recognizer", zap.Int("max_log_length", cfg.MaxLogLength))

	return gemini.NewRecognizer(generator, cfg.MaxLogLength, recLogger), nil
}
