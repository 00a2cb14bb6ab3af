package exposure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-api/internal/exposure"
)

func testSwaggerDoc(t *testing.T) map[string]any {
	t.Helper()
	env, err := newTestEnv()
	require.NoError(t, err)

	return env.registry.SwaggerDoc(exposure.SwaggerInfo{
		Title:    "Test API",
		Version:  "1.0.0",
		Host:     "localhost:8080",
		BasePath: "/api",
	})
}

func TestSwaggerDocSkeleton(t *testing.T) {
	doc := testSwaggerDoc(t)

	assert.Equal(t, "2.0", doc["swagger"])
	assert.Equal(t, "/api", doc["basePath"])
	assert.Equal(t, "Test API", doc["info"].(map[string]any)["title"])

	security := doc["securityDefinitions"].(map[string]any)["ApiKeyAuth"].(map[string]any)
	assert.Equal(t, "apiKey", security["type"])
	assert.Equal(t, "My-ApiKey", security["name"])
}

func TestSwaggerDocPaths(t *testing.T) {
	doc := testSwaggerDoc(t)
	paths := doc["paths"].(map[string]map[string]any)

	item, ok := paths["/Authors/{id}"]
	require.True(t, ok, "gin params must render as swagger templates")
	for _, verb := range []string{"get", "patch", "delete"} {
		assert.Contains(t, item, verb)
	}

	assert.Contains(t, paths, "/Authors/{id}/novels")
	assert.Contains(t, paths, "/Authors/{id}/shout")
	assert.Contains(t, paths, "/Authors/stats")

	// Restricted verbs stay out of the document too.
	novels, ok := paths["/Novels/{id}"]
	require.True(t, ok)
	assert.NotContains(t, novels, "patch")
	assert.NotContains(t, novels, "delete")
}

func TestSwaggerDocHidesUnexposedFields(t *testing.T) {
	doc := testSwaggerDoc(t)
	definitions := doc["definitions"].(map[string]any)

	author := definitions["Author"].(map[string]any)
	properties := author["properties"].(map[string]any)
	assert.Contains(t, properties, "name")
	assert.NotContains(t, properties, "secret")
}

func TestSwaggerDocListParameters(t *testing.T) {
	doc := testSwaggerDoc(t)
	paths := doc["paths"].(map[string]map[string]any)

	list := paths["/Novels"]["get"].(map[string]any)
	params := list["parameters"].([]map[string]any)

	names := map[string]bool{}
	for _, p := range params {
		names[p["name"].(string)] = true
	}
	assert.True(t, names["page[offset]"])
	assert.True(t, names["page[limit]"])
	assert.True(t, names["filter[title]"])
	assert.True(t, names["filter"], "a resource with a custom hook documents the bare filter argument")
	assert.True(t, names["sort"])
}
