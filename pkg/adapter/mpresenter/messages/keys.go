// 指示: miu200521358
// Package messages はCLI表示に使うメッセージキーを提供する。
package messages

// メッセージキー一覧。
const (
	HelpRootShort    = "ルート説明"
	HelpConvertShort = "変換説明"
	HelpBatchShort   = "一括変換説明"
	HelpInspectShort = "確認説明"
	HelpSplitShort   = "分解説明"

	FlagScale      = "倍率フラグ説明"
	FlagArmSpread  = "肩開きフラグ説明"
	FlagNoScaling  = "倍率無効フラグ説明"
	FlagConfig     = "設定フラグ説明"
	FlagLang       = "言語フラグ説明"
	FlagLogLevel   = "ログレベルフラグ説明"
	FlagArtifacts  = "分解出力フラグ説明"
	FlagOutputDir  = "出力先フラグ説明"
	FlagRecursive  = "再帰フラグ説明"
	FlagSkipFailed = "失敗継続フラグ説明"

	MessageLoadFailed     = "読み込み失敗"
	MessageConvertFailed  = "変換失敗"
	MessageInspectFailed  = "確認失敗"
	MessageSplitFailed    = "分解失敗"
	MessageConfigFailed   = "設定読み込み失敗"
	MessageInputRequired  = "BVHファイルを指定してください"
	MessageNoInputFiles   = "BVHファイルが見つかりません"
	MessageBatchHasErrors = "一括変換に失敗したファイルがあります"

	LogLoadStart      = "BVH読み込み開始: %s"
	LogConvertSuccess = "VRMA保存成功: %s"
	LogArtifacts      = "分解出力: %s"
	LogWarning        = "警告: %s"
	LogBatchStart     = "一括変換開始: %d件"
	LogBatchFailed    = "一括変換失敗: %s: %v"
	LogBatchSummary   = "一括変換完了: 成功=%d 失敗=%d"
)
