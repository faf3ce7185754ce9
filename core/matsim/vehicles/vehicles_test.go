package vehicles

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVehicles = `<?xml version="1.0" encoding="UTF-8"?>
<vehicleDefinitions xmlns="http://www.matsim.org/files/dtd" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
	<vehicleType id="autonomous_vehicle">
		<capacity seats="6" standingRoomInPersons="0" />
		<length meter="7.5" />
		<width meter="1.0" />
		<maximumVelocity meterPerSecond="5.555555555555555" />
		<networkMode mode="car" />
	</vehicleType>
	<vehicleType id="conventional_vehicle">
		<capacity seats="8" standingRoomInPersons="0" />
	</vehicleType>
	<vehicle id="av1" type="autonomous_vehicle" />
</vehicleDefinitions>
`

func TestReadTypes(t *testing.T) {
	d, err := Read(strings.NewReader(sampleVehicles))
	require.NoError(t, err)
	require.Len(t, d.Types, 2)

	av, ok := d.Type("autonomous_vehicle")
	require.True(t, ok)
	assert.InDelta(t, 20.0/3.6, av.MaxVelocity(), 1e-9)

	conv, ok := d.Type("conventional_vehicle")
	require.True(t, ok)
	assert.True(t, math.IsInf(conv.MaxVelocity(), 1))

	_, ok = d.Type("bus")
	assert.False(t, ok)
}
