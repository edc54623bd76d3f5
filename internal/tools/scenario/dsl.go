package scenario

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
)

const scenarioTypeName = "scenario"

// Scenario is a named list of steps recorded by a Lua script.
type Scenario struct {
	Name  string
	Steps []Step
}

// Step is one recorded DSL call.
type Step struct {
	Kind string
	Args map[string]any
}

// LoadScenarioFromFile runs the Lua script at path and returns the Scenario
// it builds. The script must return the value created by Scenario.new.
func LoadScenarioFromFile(path string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)

	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return scenario, nil
}

// LoadScenarioFromString is LoadScenarioFromFile for an in-memory script.
func LoadScenarioFromString(name, source string) (*Scenario, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	registerLuaTypes(state)

	if err := lua.LoadString(state, source); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	scenario, err := runChunk(state)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scenario.Name) == "" {
		scenario.Name = name
	}
	return scenario, nil
}

func runChunk(state *lua.State) (*Scenario, error) {
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	if state.TypeOf(-1) != lua.TypeUserData {
		state.Pop(1)
		return nil, fmt.Errorf("scenario script must return Scenario")
	}
	ud := state.ToUserData(-1)
	state.Pop(1)
	scenario, ok := ud.(*Scenario)
	if !ok || scenario == nil {
		return nil, fmt.Errorf("scenario script returned invalid Scenario")
	}
	return scenario, nil
}

func registerLuaTypes(state *lua.State) {
	lua.NewMetaTable(state, scenarioTypeName)
	state.NewTable()
	lua.SetFunctions(state, scenarioMethods, 0)
	state.SetField(-2, "__index")
	state.Pop(1)

	state.NewTable()
	lua.SetFunctions(state, scenarioConstructor, 0)
	state.SetGlobal("Scenario")
}

var scenarioConstructor = []lua.RegistryFunction{
	{Name: "new", Function: scenarioNew},
}

var scenarioMethods = []lua.RegistryFunction{
	{Name: "nationality", Function: scenarioRecord("nationality")},
	{Name: "class", Function: scenarioRecord("class")},
	{Name: "character", Function: scenarioCharacter},
	{Name: "characteristic", Function: scenarioCharacteristic},
	{Name: "skill", Function: scenarioSkill},
	{Name: "update_skill", Function: scenarioUpdateSkill},
	{Name: "remove_skill", Function: scenarioRemoveSkill},
	{Name: "adjust", Function: scenarioAdjust},
	{Name: "armor", Function: scenarioArmor},
	{Name: "expect", Function: scenarioExpect},
	{Name: "expect_error", Function: scenarioExpectError},
}

func scenarioNew(state *lua.State) int {
	name := lua.OptString(state, 1, "")
	state.PushUserData(&Scenario{Name: name})
	lua.SetMetaTableNamed(state, scenarioTypeName)
	return 1
}

// scenarioRecord records a catalog record: scene:nationality(id, {
// characteristics = {size = 2}, skills = {{category=, name=, delta=}} }).
func scenarioRecord(kind string) lua.Function {
	return func(state *lua.State) int {
		scenario := checkScenario(state)
		id := lua.CheckString(state, 2)
		data := optionalTable(state, 3)
		data["id"] = id
		appendStep(scenario, kind, data)
		return 0
	}
}

func scenarioCharacter(state *lua.State) int {
	scenario := checkScenario(state)
	name := lua.CheckString(state, 2)
	data := optionalTable(state, 3)
	data["name"] = name
	appendStep(scenario, "character", data)
	return 0
}

func scenarioCharacteristic(state *lua.State) int {
	scenario := checkScenario(state)
	key := lua.CheckString(state, 2)
	data := map[string]any{"key": key, "base": lua.CheckInteger(state, 3)}
	if !state.IsNoneOrNil(4) {
		data["bonus"] = lua.CheckInteger(state, 4)
	}
	appendStep(scenario, "characteristic", data)
	return 0
}

func scenarioSkill(state *lua.State) int {
	scenario := checkScenario(state)
	data := optionalTable(state, 4)
	data["category"] = lua.CheckString(state, 2)
	data["name"] = lua.CheckString(state, 3)
	appendStep(scenario, "skill", data)
	return 0
}

// scenarioUpdateSkill records scene:update_skill(category, name, field, value);
// a nil value clears the field.
func scenarioUpdateSkill(state *lua.State) int {
	scenario := checkScenario(state)
	data := map[string]any{
		"category": lua.CheckString(state, 2),
		"name":     lua.CheckString(state, 3),
		"field":    lua.CheckString(state, 4),
	}
	if !state.IsNoneOrNil(5) {
		data["value"] = lua.CheckInteger(state, 5)
	}
	appendStep(scenario, "update_skill", data)
	return 0
}

func scenarioRemoveSkill(state *lua.State) int {
	scenario := checkScenario(state)
	appendStep(scenario, "remove_skill", map[string]any{
		"category": lua.CheckString(state, 2),
		"name":     lua.CheckString(state, 3),
	})
	return 0
}

func scenarioAdjust(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 4, lua.TypeTable)
	data := tableToMap(state, 4)
	data["category"] = lua.CheckString(state, 2)
	data["name"] = lua.CheckString(state, 3)
	appendStep(scenario, "adjust", data)
	return 0
}

func scenarioArmor(state *lua.State) int {
	scenario := checkScenario(state)
	data := map[string]any{"rating": lua.CheckInteger(state, 2)}
	if !state.IsNoneOrNil(3) {
		lua.CheckType(state, 3, lua.TypeTable)
		data["bonuses"] = tableToGo(state, 3)
	}
	appendStep(scenario, "armor", data)
	return 0
}

func scenarioExpect(state *lua.State) int {
	scenario := checkScenario(state)
	lua.CheckType(state, 2, lua.TypeTable)
	appendStep(scenario, "expect", tableToMap(state, 2))
	return 0
}

// scenarioExpectError marks the previous step as expected to fail with the
// given error code.
func scenarioExpectError(state *lua.State) int {
	scenario := checkScenario(state)
	code := lua.CheckString(state, 2)
	if len(scenario.Steps) == 0 {
		lua.Errorf(state, "expect_error requires a previous step")
		return 0
	}
	scenario.Steps[len(scenario.Steps)-1].Args[expectErrorKey] = code
	return 0
}

func checkScenario(state *lua.State) *Scenario {
	ud := lua.CheckUserData(state, 1, scenarioTypeName)
	if scenario, ok := ud.(*Scenario); ok && scenario != nil {
		return scenario
	}
	lua.ArgumentError(state, 1, "scenario expected")
	return nil
}

func appendStep(scenario *Scenario, kind string, data map[string]any) int {
	if scenario == nil {
		return -1
	}
	if data == nil {
		data = map[string]any{}
	}
	scenario.Steps = append(scenario.Steps, Step{Kind: kind, Args: data})
	return len(scenario.Steps) - 1
}

func optionalTable(state *lua.State, index int) map[string]any {
	if state.IsNoneOrNil(index) || state.TypeOf(index) != lua.TypeTable {
		return map[string]any{}
	}
	return tableToMap(state, index)
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

// tableToGo converts a sequence table into []any and any other table into
// map[string]any.
func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}
	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
