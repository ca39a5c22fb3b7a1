package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-realtime-pathtracer/pkg/loaders"
)

// BuiltInGroup is the group name of the scenes compiled into the binary
const BuiltInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, accepted by ByName
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to scene file (file type only)
	Spheres     int    `json:"spheres"`     // Number of spheres
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// builtInScenes lists the scenes ByName can build without touching the disk
var builtInScenes = []SceneInfo{
	{
		ID:          "default",
		Name:        "Default Scene",
		Description: "Diffuse, hollow glass and metal spheres on a yellow ground",
	},
	{
		ID:          "glass",
		Name:        "Glass Spheres",
		Description: "Glass spheres of increasing refraction index",
	},
	{
		ID:          "sphere-grid",
		Name:        "Sphere Grid",
		Description: "Grid of rainbow-colored metallic spheres",
	},
}

// ByName builds a scene from a built-in ID, a "file:<name>" ID from
// ListAllScenes, or a path to a .json scene file
func ByName(name string) (*Scene, error) {
	switch name {
	case "", "default":
		return NewDefaultScene(), nil
	case "glass":
		return NewGlassScene(), nil
	case "sphere-grid":
		return NewSphereGridScene(DefaultGridSize), nil
	}

	if base, ok := strings.CutPrefix(name, "file:"); ok {
		path, err := findSceneFile(base)
		if err != nil {
			return nil, err
		}
		return NewFileScene(path)
	}

	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return NewFileScene(name)
	}

	return nil, fmt.Errorf("unknown scene %q", name)
}

// scenesDir returns the first scenes directory found, or "" if there is none.
// The web server runs from web/, so the parent is searched as well.
// The result is absolute because scene file paths may not start with "../".
func scenesDir() string {
	for _, path := range []string{"scenes", "../scenes"} {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

func findSceneFile(base string) (string, error) {
	dir := scenesDir()
	if dir == "" {
		return "", fmt.Errorf("scene file %q not found: no scenes directory", base)
	}
	path := filepath.Join(dir, base+".json")
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("scene file %q not found: %w", base, err)
	}
	return path, nil
}

// ListFileScenes scans the scenes directory and returns the JSON scenes it holds
func ListFileScenes() ([]SceneInfo, error) {
	dir := scenesDir()
	if dir == "" {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}
	return listFileScenesIn(dir)
}

func listFileScenesIn(dir string) ([]SceneInfo, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	scenes := []SceneInfo{}
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip broken files so one bad scene doesn't hide the rest
			fmt.Printf("Warning: failed to parse scene %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata loads a scene file and describes it
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	nameWithoutExt := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))

	sf, err := loaders.LoadSceneFile(filePath)
	if err != nil {
		return SceneInfo{}, err
	}

	info := SceneInfo{
		ID:          "file:" + nameWithoutExt,
		Name:        sf.Name,
		Description: sf.Description,
		Group:       sf.Group,
		Type:        "file",
		FilePath:    filePath,
		Spheres:     len(sf.Spheres),
	}
	// LoadSceneFile falls back to the raw file name
	if info.Name == nameWithoutExt {
		info.Name = titleCase(nameWithoutExt)
	}
	if info.Group == "" {
		info.Group = "Scene Files"
	}
	info.DisplayName = info.Name

	return info, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes() (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, info := range builtInScenes {
		info.DisplayName = info.Name
		info.Group = BuiltInGroup
		info.Type = "builtin"
		if s, err := ByName(info.ID); err == nil {
			info.Spheres = s.SphereCount()
		}
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListFileScenes()
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	return groupScenes(allScenes), nil
}

// groupScenes orders groups with the built-in group first, then alphabetically
func groupScenes(scenes []SceneInfo) ScenesResponse {
	var response ScenesResponse

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range scenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if builtInGroup, exists := groupMap[BuiltInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   BuiltInGroup,
			Scenes: builtInGroup,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response
}

// titleCase converts a filename-style string to title case
// e.g., "glass-row" -> "Glass Row"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
