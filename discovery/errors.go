package discovery

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrAlreadyRunning 持续发现已在运行
	ErrAlreadyRunning = xerrors.New("discovery: continuous discovery already running")
	// ErrNoSources 未配置任何发现源
	ErrNoSources = xerrors.New("discovery: no sources configured")
)
