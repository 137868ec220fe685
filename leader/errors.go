package leader

import "github.com/ceyewan/scout/xerrors"

var (
	// ErrUnknownDriver 不支持的选举后端
	ErrUnknownDriver = xerrors.New("leader: unknown driver")
	// ErrConnectorNil 连接器为空
	ErrConnectorNil = xerrors.New("leader: connector is nil")
	// ErrNotLeader 当前实例未持有领导权
	ErrNotLeader = xerrors.New("leader: not the leader")
	// ErrAlreadyLeader 当前实例已持有领导权
	ErrAlreadyLeader = xerrors.New("leader: already the leader")
)
