package xerrors

// 发现流程的错误分类码。
// 只有 CodeConfiguration 是致命错误；其余均为软错误，
// 记录到统计信息后批次继续执行。
const (
	CodeSourceUnavailable = "source_unavailable"  // 发现源后端不可达
	CodeParse             = "parse_error"         // 本地清单文件格式错误
	CodeValidation        = "validation_failure"  // 结构或健康校验未通过
	CodeExtraction        = "extraction_failure"  // 单个元数据分析失败
	CodeRegistryConflict  = "registry_conflict"   // 注册时身份冲突，由合并消解
	CodeConfiguration     = "configuration_error" // 适配器类型或参数非法
)
