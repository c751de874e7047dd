package systems

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/configurator/internal/assets"
	"github.com/gonewx/configurator/pkg/components"
	"github.com/gonewx/configurator/pkg/config"
	"github.com/gonewx/configurator/pkg/ecs"
	"github.com/gonewx/configurator/pkg/game"
)

// testConfigYAML 与默认场景结构相同的精简配置
const testConfigYAML = `
window: {width: 960, height: 640}
assemblies:
  - {key: carter01, asset: carter01.yaml, visible: true, primary: true}
  - {key: base, asset: base.yaml, visible: true}
  - {key: plus, asset: plus.yaml, tierControlled: true, label: Plus}
  - {key: tier2, asset: tier2.yaml, tierControlled: true, label: "2K"}
  - {key: tier3, asset: tier3.yaml, tierControlled: true}
  - {key: tier3plus, asset: tier3plus.yaml, tierControlled: true, label: "3K+"}
tiers:
  "1K": []
  "1K+": [plus]
  "2K": [tier2]
  "2K+": [plus, tier2]
  "3K": [plus, tier2, tier3]
  "3K+": [plus, tier2, tier3, tier3plus]
camera:
  position: [3, 3, 3]
  pivot: [0, 0.5, 0]
  lookAtBias: 0.5
  transitionDuration: 1
  defaultTarget: [3, 2, 3]
  targets:
    "2K+": [0, 2.2, 3.4]
    "3K+": [-3.2, 2.6, -2.2]
`

// testAssetYAML 单个盒子的模型描述
const testAssetYAML = `
name: test
boxes:
  - {min: [-0.6, 0.1, -0.35], max: [0.6, 1.15, 0.35]}
`

// testEnv 组装好的系统集合
type testEnv struct {
	em          *ecs.EntityManager
	state       *game.ConfiguratorState
	visibility  *VisibilitySystem
	rotation    *RotationSystem
	camera      *CameraSystem
	interaction *InteractionSystem
	loading     *AssetLoadingSystem
	files       map[string][]byte
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.ParseConfiguratorConfig([]byte(testConfigYAML))
	if err != nil {
		t.Fatalf("ParseConfiguratorConfig: %v", err)
	}

	env := &testEnv{em: ecs.NewEntityManager(), files: make(map[string][]byte)}
	for _, asm := range cfg.Assemblies {
		env.files[asm.Asset] = []byte(testAssetYAML)
	}

	env.state = game.NewConfiguratorState(env.em, cfg)
	env.visibility = NewVisibilitySystem(env.em, env.state)
	env.rotation = NewRotationSystem(env.em)
	env.camera = NewCameraSystem(env.em, env.state)
	env.interaction = NewInteractionSystem(env.em, env.state, env.visibility, env.rotation, env.camera)

	loader := assets.NewLoader(func(path string) ([]byte, error) {
		data, ok := env.files[path]
		if !ok {
			return nil, fmt.Errorf("no such file: %s", path)
		}
		return data, nil
	})
	env.loading = NewAssetLoadingSystem(env.em, env.state, loader)
	return env
}

// load 同步创建指定 key 的部件实体
func (env *testEnv) load(t *testing.T, key string) ecs.EntityID {
	t.Helper()
	for _, asm := range env.state.Config.Assemblies {
		if asm.Key != key {
			continue
		}
		asset, err := assets.ParseAsset(asm.Asset, env.files[asm.Asset])
		if err != nil {
			t.Fatalf("ParseAsset(%s): %v", asm.Asset, err)
		}
		return env.loading.Spawn(asm, asset)
	}
	t.Fatalf("unknown assembly %q", key)
	return 0
}

func (env *testEnv) loadPrimary(t *testing.T) ecs.EntityID {
	t.Helper()
	return env.load(t, "carter01")
}

func (env *testEnv) loadAll(t *testing.T) {
	t.Helper()
	for _, asm := range env.state.Config.Assemblies {
		env.load(t, asm.Key)
	}
}

func (env *testEnv) assembly(t *testing.T, key string) *components.AssemblyComponent {
	t.Helper()
	id, ok := env.state.Assembly(key)
	if !ok {
		t.Fatalf("assembly %q not loaded", key)
	}
	asm, ok := ecs.GetComponent[*components.AssemblyComponent](env.em, id)
	if !ok {
		t.Fatalf("assembly %q has no AssemblyComponent", key)
	}
	return asm
}

func (env *testEnv) label(t *testing.T, key string) *components.LabelComponent {
	t.Helper()
	asm := env.assembly(t, key)
	label, ok := ecs.GetComponent[*components.LabelComponent](env.em, asm.LabelEntity)
	if !ok {
		t.Fatalf("assembly %q has no label", key)
	}
	return label
}

func (env *testEnv) assemblyPosition(t *testing.T, id ecs.EntityID) mgl64.Vec3 {
	t.Helper()
	transform, ok := ecs.GetComponent[*components.TransformComponent](env.em, id)
	if !ok {
		t.Fatalf("entity %d has no transform", id)
	}
	return transform.Position
}

// screenPointOf 部件局部点投影到屏幕上的像素坐标
func (env *testEnv) screenPointOf(t *testing.T, id ecs.EntityID, local mgl64.Vec3) (int, int) {
	t.Helper()
	cam := env.state.Camera()
	w, h := env.state.Config.Window.Width, env.state.Config.Window.Height
	x, y, ok := ProjectPoint(env.assemblyPosition(t, id).Add(local), ViewMatrix(cam), ProjectionMatrix(cam, w, h), w, h)
	if !ok {
		t.Fatalf("point %v of entity %d is not on screen", local, id)
	}
	return int(x + 0.5), int(y + 0.5)
}
