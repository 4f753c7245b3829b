package logx

const (
	// ServiceName is the DI/service locator name for the logx service.
	ServiceName = "logx"
	emptyString = ""
)

const (
	// DefaultQueueCapacity is the number of entries a FileSink buffers before dropping.
	DefaultQueueCapacity = 1000
	// DefaultBatchSize caps how many entries are written in one file operation.
	DefaultBatchSize = 50
	// DefaultAppName is used when no application name is configured.
	DefaultAppName = "logx"

	partitionLayout = "06-01-02"
	partitionSuffix = "_Log.txt"
	lineTimeLayout  = "06-01-02, 15:04:05.000"

	jsonStartMarker = "=========JSON_START========"
	jsonEndMarker   = "=========JSON_END=========="

	dirPerm  = 0o755
	filePerm = 0o644
)

const (
	errMsgNilService      = "Logx service is nil."
	errMsgNilOptions      = "Logx options are nil."
	errMsgOptionsInvalid  = "Logx configuration is invalid."
	errMsgReadConfigFile  = "Unable to read logx config file."
	errMsgParseConfigFile = "Unable to parse logx config file."
	errMsgUnknownLevel    = "Unknown log level."
	errMsgCreateDir       = "Failed to create log directory."
	errMsgOpenPartition   = "Failed to open log partition."
	errMsgWritePartition  = "Failed to write log partition."
	errMsgClosePartition  = "Failed to close log partition."
	errMsgWatchConfig     = "Unable to watch logx config file."

	errMsgDiagDirNotRelative = "Diagnostics log directory must be relative to the working directory."
)
