package glacier

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/btcsuite/btclog"
	"github.com/glacierprotocol/glacier/chainclient"
	"github.com/glacierprotocol/glacier/qr"
	"github.com/glacierprotocol/glacier/vault"
	"github.com/glacierprotocol/glacier/withdraw"
)

// Loggers per subsystem. A single backend logger is created and all
// subsystem loggers created from it will write to the backend. Everything
// goes to stderr so log output never contaminates the artifacts printed
// on stdout for the operator to transcribe.
var (
	backendLog = btclog.NewBackend(os.Stderr)

	glcrLog = backendLog.Logger("GLCR")
	vltLog  = backendLog.Logger("VALT")
	wthdLog = backendLog.Logger("WTHD")
	qrcdLog = backendLog.Logger("QRCD")
	chclLog = backendLog.Logger("CHCL")

	// subsystemLoggers maps each subsystem identifier to its associated
	// logger.
	subsystemLoggers = map[string]btclog.Logger{
		"GLCR": glcrLog,
		"VALT": vltLog,
		"WTHD": wthdLog,
		"QRCD": qrcdLog,
		"CHCL": chclLog,
	}
)

// Initialize package-global logger variables.
func init() {
	vault.UseLogger(vltLog)
	withdraw.UseLogger(wthdLog)
	qr.UseLogger(qrcdLog)
	chainclient.UseLogger(chclLog)
}

// Log returns the logger of the root subsystem.
func Log() btclog.Logger {
	return glcrLog
}

// setLogLevel sets the logging level for the provided subsystem. Unknown
// subsystem identifiers are silently ignored; SetLogLevels validates them
// before calling here.
func setLogLevel(subsystemID, logLevel string) {
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// supportedSubsystems returns a sorted slice of the supported subsystems
// for logging purposes.
func supportedSubsystems() []string {
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	sort.Strings(subsystems)
	return subsystems
}

// validLogLevel returns whether or not logLevel is a valid debug log
// level.
func validLogLevel(logLevel string) bool {
	_, ok := btclog.LevelFromString(logLevel)
	return ok
}

// SetLogLevels parses a debug level specification and configures the
// subsystem loggers accordingly. The specification is either a single
// level applied to every subsystem, or a comma separated list of
// subsystem=level pairs.
func SetLogLevels(debugLevel string) error {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") &&
		!strings.Contains(debugLevel, "=") {

		if !validLogLevel(debugLevel) {
			return fmt.Errorf("the specified debug level [%v] "+
				"is invalid", debugLevel)
		}

		setLogLevels(debugLevel)
		return nil
	}

	// Split the specification into its fields of the form
	// subsystem=level.
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			return fmt.Errorf("the specified debug level "+
				"contains an invalid subsystem/level pair "+
				"[%v]", logLevelPair)
		}

		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		if _, exists := subsystemLoggers[subsysID]; !exists {
			return fmt.Errorf("the specified subsystem [%v] is "+
				"invalid -- supported subsystems %v",
				subsysID, supportedSubsystems())
		}

		if !validLogLevel(logLevel) {
			return fmt.Errorf("the specified debug level [%v] "+
				"is invalid", logLevel)
		}

		setLogLevel(subsysID, logLevel)
	}

	return nil
}
