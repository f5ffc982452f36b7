// SPDX-License-Identifier: ice License 1.0

package fixture

import (
	"testing"

	connectorsfixture "github.com/ice-blockchain/wintr/connectors/fixture"
	messagebrokerfixture "github.com/ice-blockchain/wintr/connectors/message_broker/fixture"
	storagefixture "github.com/ice-blockchain/wintr/connectors/storage/fixture"
)

func StartLocalTestEnvironment() {
	connectorsfixture.
		NewTestRunner(applicationYAMLKey, nil, append(RTestConnectors(), WTestConnectors()...)...).
		StartConnectorsIndefinitely()
}

//nolint:gocritic // Because that's exactly what we want.
func RunTests(
	m *testing.M,
	dbConnector *storagefixture.TestConnector,
	mbConnector *messagebrokerfixture.TestConnector,
	lifeCycleHooks ...*connectorsfixture.ConnectorLifecycleHooks,
) {
	*dbConnector = newDBConnector()
	*mbConnector = newMBConnector()

	var connectorLifecycleHooks *connectorsfixture.ConnectorLifecycleHooks
	if len(lifeCycleHooks) == 1 {
		connectorLifecycleHooks = lifeCycleHooks[0]
	}

	connectorsfixture.
		NewTestRunner(applicationYAMLKey, connectorLifecycleHooks, *dbConnector, *mbConnector).
		RunTests(m)
}

// RunDBTests runs the tests of the read side packages, which need nothing but the database.
func RunDBTests(m *testing.M) {
	connectorsfixture.NewTestRunner(applicationYAMLKey, nil, RTestConnectors()...).RunTests(m)
}

// WTestConnectors are the connectors the write service needs on top of the database.
func WTestConnectors() []connectorsfixture.TestConnector {
	return []connectorsfixture.TestConnector{newMBConnector()}
}

func RTestConnectors() []connectorsfixture.TestConnector {
	return []connectorsfixture.TestConnector{newDBConnector()}
}

func newDBConnector() storagefixture.TestConnector {
	return storagefixture.NewTestConnector(applicationYAMLKey, TestConnectorsOrder)
}

func newMBConnector() messagebrokerfixture.TestConnector {
	return messagebrokerfixture.NewTestConnector(applicationYAMLKey, TestConnectorsOrder)
}
