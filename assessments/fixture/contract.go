// SPDX-License-Identifier: ice License 1.0

package fixture

// Public API.

const (
	TestConnectorsOrder = 0
)

// Private API.

const (
	applicationYAMLKey = "assessments"
)
