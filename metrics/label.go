package metrics

// Label 指标标签，键值对
type Label struct {
	Key   string
	Value string
}

// L 创建标签的便捷函数
//
//	counter.Inc(metrics.L("source", "docker"))
func L(key, value string) Label {
	return Label{Key: key, Value: value}
}

// labelValues 按声明的标签名顺序提取标签值（内部使用）
// 未提供的标签取空串，多余的标签被忽略。
func labelValues(names []string, labels []Label) []string {
	vals := make([]string, len(names))
	for i, name := range names {
		for _, l := range labels {
			if l.Key == name {
				vals[i] = l.Value
				break
			}
		}
	}
	return vals
}
