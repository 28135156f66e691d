package hub_test

import (
	"testing"

	"sensorhub/pkg/common"
	"sensorhub/pkg/db"
	"sensorhub/pkg/hub"
	_ "sensorhub/pkg/testing"
)

// newTestHub wires a Hub against the shared in-memory sqlite instance with
// the real service implementations.
func newTestHub(t *testing.T) *hub.Hub {
	t.Helper()
	common.SetTestLoggerNop()

	instance := db.GetInstance(db.UseMemorySqliteDialector())
	h := &hub.Hub{Db: *instance}
	h.WithServices(hub.ServiceOpts{
		Device:  h.GetIDevice(),
		Reading: h.GetIReading(),
		Rule:    h.GetIRule(),
		Alert:   h.GetIAlert(),
		User:    h.GetIUser(),
	})
	return h
}
