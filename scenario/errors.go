package scenario

import "errors"

var (
	ErrEmptyScenarioName      = errors.New("scenario name must not be empty")
	ErrScenarioNameNotTrimmed = errors.New("scenario name must not have surrounding whitespace")
	ErrDuplicateScenario      = errors.New("scenario registered more than once")
	ErrUnknownScenario        = errors.New("unknown scenario")
	ErrUnknownPreload         = errors.New("preload names an unknown scenario")
	ErrCyclicPreload          = errors.New("preload dependencies form a cycle")
	ErrPreloadMissing         = errors.New("preload snapshot file not found, generate the scenarios in dependency order first")
	ErrPreloadFailed          = errors.New("preload scenario failed")
	ErrSnapshotMissing        = errors.New("scenario snapshot file not found")
	ErrScenarioFailed         = errors.New("scenario failed")
	ErrNilEngine              = errors.New("engine must not be nil")
	ErrNilRegistry            = errors.New("registry must not be nil")
	ErrEmptySnapshotDir       = errors.New("snapshot directory must not be empty")
)
