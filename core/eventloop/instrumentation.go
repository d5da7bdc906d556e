package eventloop

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/koscakluka/crane-core/core/eventloop"

var logger = otelslog.NewLogger(scopeName)
