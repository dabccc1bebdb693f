package config

import (
	"time"

	"github.com/RunOnFlux/ssp-relay-sub000/internal/util"
)

// EchoServer contains the echo bootstrap settings.
type EchoServer struct {
	Debug                          bool
	ListenAddress                  string
	HideInternalServerErrorDetails bool
	EnableRecoverMiddleware        bool
	EnableRequestIDMiddleware      bool
	EnableLoggerMiddleware         bool
}

// Logger contains the zerolog settings.
type Logger struct {
	Level              string
	RequestLevel       string
	LogRequestBody     bool
	PrettyPrintConsole bool
}

// Mongo contains the record store connection settings.
type Mongo struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
	OpTimeout      time.Duration
}

// Auth contains the identity-authentication settings.
type Auth struct {
	// Magic prefix of the signed-message scheme, without the leading
	// varint length byte (it is written by the wire encoder).
	MessagePrefix string
	// Maximum accepted drift between payload timestamp and server time.
	MaxTimestampDrift time.Duration
	// Nonce validity window and soft cache capacity.
	NonceTTL      time.Duration
	NonceCapacity int
	NonceSweep    time.Duration
	// Socket join policy: "optional" accepts unauthenticated joins for
	// legacy clients, "required" rejects them.
	SocketJoinPolicy string
}

// Relay contains record lifecycle settings.
type Relay struct {
	SyncTTL              time.Duration
	ActionTTL            time.Duration
	MaxTokensPerIdentity int
}

// WkSign contains the origin-bound signing request window settings.
type WkSign struct {
	MaxAge        time.Duration
	MaxClockAhead time.Duration
}

// Push contains the push-notification provider settings.
type Push struct {
	UseFCMProvider  bool
	UseMockProvider bool
	FCMEndpoint     string
	FCMServerKey    string
}

// Server is the root service configuration.
type Server struct {
	Echo   EchoServer
	Logger Logger
	Mongo  Mongo
	Auth   Auth
	Relay  Relay
	WkSign WkSign
	Push   Push
}

// DefaultServiceConfigFromEnv returns the server config as parsed from the
// environment, falling back to defaults suitable for local development.
func DefaultServiceConfigFromEnv() Server {
	return Server{
		Echo: EchoServer{
			Debug:                          util.GetEnvAsBool("SERVER_ECHO_DEBUG", false),
			ListenAddress:                  util.GetEnv("SERVER_ECHO_LISTEN_ADDRESS", ":9876"),
			HideInternalServerErrorDetails: util.GetEnvAsBool("SERVER_ECHO_HIDE_INTERNAL_SERVER_ERROR_DETAILS", true),
			EnableRecoverMiddleware:        util.GetEnvAsBool("SERVER_ECHO_ENABLE_RECOVER_MIDDLEWARE", true),
			EnableRequestIDMiddleware:      util.GetEnvAsBool("SERVER_ECHO_ENABLE_REQUEST_ID_MIDDLEWARE", true),
			EnableLoggerMiddleware:         util.GetEnvAsBool("SERVER_ECHO_ENABLE_LOGGER_MIDDLEWARE", true),
		},
		Logger: Logger{
			Level:              util.GetEnv("SERVER_LOGGER_LEVEL", "info"),
			RequestLevel:       util.GetEnv("SERVER_LOGGER_REQUEST_LEVEL", "debug"),
			LogRequestBody:     util.GetEnvAsBool("SERVER_LOGGER_LOG_REQUEST_BODY", false),
			PrettyPrintConsole: util.GetEnvAsBool("SERVER_LOGGER_PRETTY_PRINT_CONSOLE", false),
		},
		Mongo: Mongo{
			URI:            util.GetEnv("SERVER_MONGO_URI", "mongodb://localhost:27017"),
			Database:       util.GetEnv("SERVER_MONGO_DATABASE", "ssprelay"),
			ConnectTimeout: time.Second * time.Duration(util.GetEnvAsInt("SERVER_MONGO_CONNECT_TIMEOUT_SEC", 10)),
			OpTimeout:      time.Second * time.Duration(util.GetEnvAsInt("SERVER_MONGO_OP_TIMEOUT_SEC", 5)),
		},
		Auth: Auth{
			MessagePrefix:     util.GetEnv("AUTH_MESSAGE_PREFIX", "Bitcoin Signed Message:\n"),
			MaxTimestampDrift: time.Minute * time.Duration(util.GetEnvAsInt("AUTH_MAX_TIMESTAMP_DRIFT_MIN", 10)),
			NonceTTL:          time.Minute * time.Duration(util.GetEnvAsInt("AUTH_NONCE_TTL_MIN", 10)),
			NonceCapacity:     util.GetEnvAsInt("AUTH_NONCE_CAPACITY", 10000),
			NonceSweep:        time.Minute * time.Duration(util.GetEnvAsInt("AUTH_NONCE_SWEEP_MIN", 10)),
			SocketJoinPolicy:  util.GetEnv("AUTH_SOCKET_JOIN_POLICY", "optional"),
		},
		Relay: Relay{
			SyncTTL:              time.Minute * time.Duration(util.GetEnvAsInt("RELAY_SYNC_TTL_MIN", 15)),
			ActionTTL:            time.Minute * time.Duration(util.GetEnvAsInt("RELAY_ACTION_TTL_MIN", 15)),
			MaxTokensPerIdentity: util.GetEnvAsInt("RELAY_MAX_TOKENS_PER_IDENTITY", 100),
		},
		WkSign: WkSign{
			MaxAge:        time.Minute * time.Duration(util.GetEnvAsInt("WKSIGN_MAX_AGE_MIN", 15)),
			MaxClockAhead: time.Minute * time.Duration(util.GetEnvAsInt("WKSIGN_MAX_CLOCK_AHEAD_MIN", 5)),
		},
		Push: Push{
			UseFCMProvider:  util.GetEnvAsBool("PUSH_USE_FCM_PROVIDER", false),
			UseMockProvider: util.GetEnvAsBool("PUSH_USE_MOCK_PROVIDER", true),
			FCMEndpoint:     util.GetEnv("PUSH_FCM_ENDPOINT", "https://fcm.googleapis.com/fcm/send"),
			FCMServerKey:    util.GetEnv("PUSH_FCM_SERVER_KEY", ""),
		},
	}
}
