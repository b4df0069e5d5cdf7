package lang

import (
	"sync"

	"github.com/gitrdm/yeti/internal/taskpool"
	"github.com/gitrdm/yeti/value"
)

var (
	spawnPoolOnce sync.Once
	spawnPool     *taskpool.Pool
)

func defaultSpawnPool() *taskpool.Pool {
	spawnPoolOnce.Do(func() {
		spawnPool = taskpool.New(8, 256)
	})
	return spawnPool
}

// nativeSpawn implements `spawn body…`: the body is queued as
// a fresh task whose evaluation result is discarded; the caller's env is
// returned immediately, unaffected. Errors inside a spawned task have no
// observer — there is no cancellation or result-reporting API — so they
// are silently dropped.
func nativeSpawn(env *value.Environment, args []value.Expression, eval value.Evaluator) (*value.Environment, value.Expression, error) {
	taskEnv := env
	body := args
	defaultSpawnPool().Submit(func() {
		_, _ = evaluateSequentialBody(taskEnv, body)
	})
	return env, value.Nil{}, nil
}
