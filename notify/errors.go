package notify

import "github.com/ceyewan/scout/xerrors"

// ErrUnknownSerializer 配置了不支持的序列化格式
var ErrUnknownSerializer = xerrors.New("notify: unknown serializer")
