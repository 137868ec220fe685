package extreg

// Config 外部注册中心适配器集合配置
type Config struct {
	Registries []RegistryConfig `mapstructure:"registries"`
}

// RegistryConfig 单个外部注册中心的声明。
// Type 与必填连接参数在注册时立即校验，失败即致命错误；
// 实际网络 IO 推迟到发现阶段。
type RegistryConfig struct {
	Name   string            `mapstructure:"name"`
	Type   string            `mapstructure:"type"` // consul | kubernetes | eureka | etcd
	Params map[string]string `mapstructure:"connection_params"`
}

// 支持的注册中心类型
const (
	TypeConsul     = "consul"
	TypeKubernetes = "kubernetes"
	TypeEureka     = "eureka"
	TypeEtcd       = "etcd"
)

// requiredParams 各类型注册时必须给出的连接参数
var requiredParams = map[string][]string{
	TypeConsul:     {"address"},
	TypeKubernetes: {"api_server"},
	TypeEureka:     {"server_url"},
	TypeEtcd:       {"endpoints"},
}
