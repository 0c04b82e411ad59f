package config

import (
	"log"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/viper"
)

var verbosityOnce sync.Once

// Logger returns a stdlib-backed logr.Logger prefixed with the component
// name, e.g. "[e2e-bootstrap] ". E2E_LOG_VERBOSITY raises the V-level; Load
// applies it again once the env file has been read.
func Logger(component string) logr.Logger {
	verbosityOnce.Do(func() {
		setVerbosity(newViper())
	})
	return stdr.New(log.New(os.Stderr, "[e2e-"+component+"] ", log.LstdFlags))
}

func setVerbosity(v *viper.Viper) {
	stdr.SetVerbosity(v.GetInt("E2E_LOG_VERBOSITY"))
}
