package models_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/zetetos/rl-motion/pkg/models"
)

type ModelsTestSuite struct {
	suite.Suite
}

func TestModelsTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(ModelsTestSuite))
}

func (suite *ModelsTestSuite) TestPlayerOutOfRangeIsNotFound() {
	// Arrange
	snapshot := &models.WorldSnapshot{Players: []models.PlayerInfo{{Boost: 33}}}

	// Act
	player, found := snapshot.Player(0)
	_, missing := snapshot.Player(1)
	_, negative := snapshot.Player(-1)

	// Assert
	suite.True(found)
	suite.Equal(33.0, player.Boost)
	suite.False(missing)
	suite.False(negative)
}

func (suite *ModelsTestSuite) TestNilSnapshotHasNoPlayers() {
	var snapshot *models.WorldSnapshot

	_, found := snapshot.Player(0)

	suite.False(found)
}

func (suite *ModelsTestSuite) TestValidateRejectsNaN() {
	// Arrange
	command := models.ControlCommand{Throttle: 1, Steer: math.NaN()}

	// Act
	err := command.Validate()

	// Assert
	suite.ErrorIs(err, models.ErrInvalidCommand)
	suite.ErrorContains(err, "steer")
}

func (suite *ModelsTestSuite) TestValidateAcceptsNeutralCommand() {
	suite.NoError(models.ControlCommand{}.Validate())
}

func (suite *ModelsTestSuite) TestClampedLimitsAnalogInputs() {
	// Arrange
	command := models.ControlCommand{Throttle: 3, Steer: -2, Pitch: 0.5, Yaw: -1.5, Roll: 1, Jump: true}

	// Act
	got := command.Clamped()

	// Assert
	suite.Equal(models.ControlCommand{Throttle: 1, Steer: -1, Pitch: 0.5, Yaw: -1, Roll: 1, Jump: true}, got)
}
