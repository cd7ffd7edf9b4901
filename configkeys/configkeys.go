package configkeys

const (
	delimiter = "."

	LogPrefix   = "log"
	LogLevel    = LogPrefix + delimiter + "level"
	LogEncoding = LogPrefix + delimiter + "encoding"

	ParallelPrefix  = "parallel"
	ParallelWorkers = ParallelPrefix + delimiter + "workers"

	CachePrefix      = "cache"
	CacheNumCounters = CachePrefix + delimiter + "num_counters"
	CacheMaxCost     = CachePrefix + delimiter + "max_cost"
	CacheBufferItems = CachePrefix + delimiter + "buffer_items"

	PostgresPrefix          = "postgres"
	PostgresHost            = PostgresPrefix + delimiter + "host"
	PostgresPort            = PostgresPrefix + delimiter + "port"
	PostgresUser            = PostgresPrefix + delimiter + "user"
	PostgresPassword        = PostgresPrefix + delimiter + "password"
	PostgresDBName          = PostgresPrefix + delimiter + "dbname"
	PostgresSSLMode         = PostgresPrefix + delimiter + "sslmode"
	PostgresMinPoolSize     = PostgresPrefix + delimiter + "min_pool_size"
	PostgresMaxPoolSize     = PostgresPrefix + delimiter + "max_pool_size"
	PostgresConnectAttempts = PostgresPrefix + delimiter + "connect_attempts"

	S3Prefix         = "s3"
	S3Region         = S3Prefix + delimiter + "region"
	S3Profile        = S3Prefix + delimiter + "profile"
	S3Endpoint       = S3Prefix + delimiter + "endpoint"
	S3ForcePathStyle = S3Prefix + delimiter + "force_path_style"
)
