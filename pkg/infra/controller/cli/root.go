// 指示: miu200521358
// Package cli はCLIのコマンド群を提供する。
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/bvh"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/io_motion/vrma"
	"github.com/miu200521358/mu_bvh2vrma/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_bvh2vrma/pkg/infra/config"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/i18n"
	"github.com/miu200521358/mu_bvh2vrma/pkg/shared/base/logging"
	"github.com/miu200521358/mu_bvh2vrma/pkg/usecase/minteractor"
	"github.com/spf13/cobra"
)

const (
	// AppName はコマンド名。
	AppName = "mu_bvh2vrma"
	// langEnvKey はヘルプ表示言語を指定する環境変数。
	langEnvKey = "MU_BVH2VRMA_LANG"
)

// rootFlags は全コマンド共通のフラグを表す。
type rootFlags struct {
	configPath string
	lang       string
	logLevel   string
}

// app はコマンド実行時に共有する依存を表す。
type app struct {
	out        io.Writer
	errOut     io.Writer
	flags      rootFlags
	translator i18n.II18n
	logger     logging.ILogger
	usecase    *minteractor.Bvh2VrmaUsecase
	vrmaRepo   *vrma.VrmaRepository
}

// NewRootCommand はサブコマンドを登録したルートコマンドを生成する。
func NewRootCommand(out io.Writer, errOut io.Writer) *cobra.Command {
	translator, _ := messages.NewTranslator(os.Getenv(langEnvKey))
	vrmaRepo := vrma.NewVrmaRepository()
	a := &app{
		out:        out,
		errOut:     errOut,
		translator: translator,
		logger:     logging.DefaultLogger(),
		vrmaRepo:   vrmaRepo,
		usecase: minteractor.NewBvh2VrmaUsecase(minteractor.Bvh2VrmaUsecaseDeps{
			MotionReader:      bvh.NewBvhRepository(),
			AnimationExporter: vrma.NewExporter(),
			FileWriter:        vrmaRepo,
			ArtifactExporter:  vrma.NewArtifactExporter(),
		}),
	}

	root := &cobra.Command{
		Use:           AppName,
		Short:         a.t(messages.HelpRootShort),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&a.flags.configPath, "config", "c", "", a.t(messages.FlagConfig))
	root.PersistentFlags().StringVar(&a.flags.lang, "lang", "", a.t(messages.FlagLang))
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", a.t(messages.FlagLogLevel))

	root.AddCommand(
		a.newConvertCommand(),
		a.newBatchCommand(),
		a.newInspectCommand(),
		a.newSplitCommand(),
	)
	return root
}

// t はキーを翻訳する。
func (a *app) t(key string) string {
	return i18n.TranslateOrMark(a.translator, key)
}

// loadPreset は設定ファイルと共通フラグから設定を解決し、言語とロガーを切り替える。
func (a *app) loadPreset(cmd *cobra.Command) (config.Preset, error) {
	preset := config.DefaultPreset()
	if a.flags.configPath != "" {
		loaded, err := config.Load(a.flags.configPath)
		if err != nil {
			return config.Preset{}, fmt.Errorf("%s: %w", a.t(messages.MessageConfigFailed), err)
		}
		preset = loaded
	}
	flags := config.Flags{}
	if cmd.Flags().Changed("lang") {
		flags.Lang = &a.flags.lang
	}
	if cmd.Flags().Changed("log-level") {
		flags.LogLevel = &a.flags.logLevel
	}
	bindConvertFlags(cmd, &flags)
	preset.Resolve(flags)

	if translator, err := messages.NewTranslator(preset.Lang); err == nil {
		a.translator = translator
	}
	level, err := logging.ParseLogLevel(preset.LogLevel)
	if err != nil {
		return config.Preset{}, err
	}
	logger := logging.NewLogger(a.errOut, level)
	logging.SetDefaultLogger(logger)
	a.logger = logger
	return preset, nil
}

// logErrorTitle はタイトル付きでエラーを出力する。
func logErrorTitle(logger logging.ILogger, title string, err error) {
	if logger == nil {
		return
	}
	if err == nil {
		logger.Error("%s", title)
		return
	}
	logger.Error("%s: %s", title, err.Error())
}
