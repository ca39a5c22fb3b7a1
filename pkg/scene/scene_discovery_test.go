package scene

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"three-metals", "Three Metals"},
		{"hollow_glass", "Hollow Glass"},
		{"my-custom-scene", "My Custom Scene"},
		{"simple", "Simple"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			result := titleCase(tc.input)
			if result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestByName(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
	}{
		{"", "default"},
		{"default", "default"},
		{"glass", "glass"},
		{"sphere-grid", "sphere-grid"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			s, err := ByName(tc.name)
			if err != nil {
				t.Fatalf("ByName(%q) error: %v", tc.name, err)
			}
			if s.Name != tc.expected {
				t.Errorf("ByName(%q).Name = %q, want %q", tc.name, s.Name, tc.expected)
			}
		})
	}
}

func TestByName_Errors(t *testing.T) {
	for _, name := range []string{"cornell-box", "file:missing-scene", "scenes/missing.json"} {
		if _, err := ByName(name); err == nil {
			t.Errorf("ByName(%q) should fail", name)
		}
	}
}

func TestByName_JSONPath(t *testing.T) {
	path := writeSceneFile(t, "by-path", testSceneJSON)
	s, err := ByName(path)
	if err != nil {
		t.Fatalf("ByName(%q) error: %v", path, err)
	}
	if s.SphereCount() != 2 {
		t.Errorf("Expected 2 spheres, got %d", s.SphereCount())
	}
}

func TestParseSceneMetadata(t *testing.T) {
	named := `{"name": "Metal Trio", "group": "Materials", "description": "Shiny",
	  "spheres": [{"center": [0,0,-1], "radius": 0.5, "material": {"type": "metal", "albedo": "gold"}}]}`

	testCases := []struct {
		file     string
		content  string
		expected SceneInfo
	}{
		{
			file:    "metal-trio",
			content: named,
			expected: SceneInfo{
				ID:          "file:metal-trio",
				Name:        "Metal Trio",
				DisplayName: "Metal Trio",
				Description: "Shiny",
				Group:       "Materials",
				Type:        "file",
				Spheres:     1,
			},
		},
		{
			file:    "no_metadata",
			content: testSceneJSON,
			expected: SceneInfo{
				ID:          "file:no_metadata",
				Name:        "No Metadata", // From filename
				DisplayName: "No Metadata",
				Description: "Two spheres",
				Group:       "Scene Files", // Default group
				Type:        "file",
				Spheres:     2,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeSceneFile(t, tc.file, tc.content)

			result, err := ParseSceneMetadata(path)
			if err != nil {
				t.Fatalf("ParseSceneMetadata() error: %v", err)
			}

			tc.expected.FilePath = path
			if result != tc.expected {
				t.Errorf("ParseSceneMetadata() = %+v, want %+v", result, tc.expected)
			}
		})
	}
}

func TestListFileScenesIn(t *testing.T) {
	path := writeSceneFile(t, "zeta", testSceneJSON)
	dir := filepath.Dir(path)

	if err := os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(testSceneJSON), 0644); err != nil {
		t.Fatal(err)
	}
	// Broken files are skipped
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"spheres": [`), 0644); err != nil {
		t.Fatal(err)
	}

	scenes, err := listFileScenesIn(dir)
	if err != nil {
		t.Fatalf("listFileScenesIn() error: %v", err)
	}
	if len(scenes) != 2 {
		t.Fatalf("Expected 2 scenes, got %d", len(scenes))
	}
	if scenes[0].DisplayName != "Alpha" || scenes[1].DisplayName != "Zeta" {
		t.Errorf("Expected sorted scenes, got %q and %q", scenes[0].DisplayName, scenes[1].DisplayName)
	}
}

func TestListAllScenes(t *testing.T) {
	response, err := ListAllScenes()
	if err != nil {
		t.Fatalf("ListAllScenes() error: %v", err)
	}

	if len(response.Groups) == 0 || response.Groups[0].Name != BuiltInGroup {
		t.Fatalf("Expected %q as the first group, got %+v", BuiltInGroup, response.Groups)
	}

	builtIn := response.Groups[0]
	if len(builtIn.Scenes) != len(builtInScenes) {
		t.Errorf("Built-in scenes count = %d, want %d", len(builtIn.Scenes), len(builtInScenes))
	}
	for _, info := range builtIn.Scenes {
		if info.Type != "builtin" || info.DisplayName == "" || info.Spheres == 0 {
			t.Errorf("Incomplete built-in scene info %+v", info)
		}
	}

	for _, group := range response.Groups[1:] {
		for _, info := range group.Scenes {
			if info.Type != "file" || info.FilePath == "" {
				t.Errorf("Expected file scene with path, got %+v", info)
			}
		}
	}
}

func TestGroupScenes(t *testing.T) {
	response := groupScenes([]SceneInfo{
		{ID: "b", Group: "Zeta"},
		{ID: "a", Group: "Alpha"},
		{ID: "default", Group: BuiltInGroup},
	})

	var names []string
	for _, g := range response.Groups {
		names = append(names, g.Name)
	}
	expected := []string{BuiltInGroup, "Alpha", "Zeta"}
	if len(names) != len(expected) {
		t.Fatalf("Expected groups %v, got %v", expected, names)
	}
	for i := range expected {
		if names[i] != expected[i] {
			t.Errorf("Group %d = %q, want %q", i, names[i], expected[i])
		}
	}
}
