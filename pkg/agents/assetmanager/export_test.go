package assetmanager

// SystemPrompt exposes the embedded prompt for testing
func SystemPrompt() string {
	return systemPrompt
}
