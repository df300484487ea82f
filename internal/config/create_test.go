package config

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/cinefilter/pkg/configdef"
	"github.com/tauraamui/cinefilter/pkg/log"
)

type CreateConfigTestSuite struct {
	suite.Suite
	is                   *is.I
	configCreateResolver configdef.CreateResolver
	fs                   afero.Fs
	resetLogInfo         func()
}

func (suite *CreateConfigTestSuite) SetupSuite() {
	suite.is = is.New(suite.T())
	suite.fs = afero.NewMemMapFs()
	suite.configCreateResolver = DefaultCreateResolver()

	// use in memory FS in implementation for tests
	fs = suite.fs

	logInfoRef := log.Info
	log.Info = func(string, ...interface{}) {}
	suite.resetLogInfo = func() { log.Info = logInfoRef }
}

func (suite *CreateConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
	suite.resetLogInfo()
}

func (suite *CreateConfigTestSuite) TearDownTest() {
	suite.is.NoErr(suite.fs.RemoveAll("/"))
}

func (suite *CreateConfigTestSuite) TestConfigCreate() {
	require.NoError(suite.T(), suite.configCreateResolver.Create())
	loadedConfig, err := suite.configCreateResolver.Resolve()

	assert.NoError(suite.T(), err)
	assert.EqualValues(suite.T(), configdef.Values{
		Listen:  ":8080",
		Streams: []configdef.Stream{testPatternStream},
	}, loadedConfig)
}

func (suite *CreateConfigTestSuite) TestConfigCreateFailsDueToAlreadyExisting() {
	suite.is.NoErr(suite.configCreateResolver.Create())
	err := suite.configCreateResolver.Create()
	suite.is.Equal(err.Error(), "config file already exists")
	suite.is.True(errors.Is(err, configdef.ErrConfigAlreadyExists))
}

func (suite *CreateConfigTestSuite) TestConfigDestroyRemovesCreatedFile() {
	require.NoError(suite.T(), suite.configCreateResolver.Create())
	require.NoError(suite.T(), DefaultDestroyer().Destroy())

	_, err := suite.configCreateResolver.Resolve()
	assert.Error(suite.T(), err)

	// nothing left to remove is not a failure
	assert.NoError(suite.T(), DefaultDestroyer().Destroy())
	require.NoError(suite.T(), suite.configCreateResolver.Create())
}

func TestCreateConfigTestSuite(t *testing.T) {
	suite.Run(t, &CreateConfigTestSuite{})
}
