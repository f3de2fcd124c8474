package openai

// SupportedModels returns the image models this provider accepts.
func SupportedModels() []string {
	return []string{
		"dall-e-2",
		"dall-e-3",
		"gpt-image-1",
	}
}

// SupportedSizes returns the image sizes this provider accepts.
func SupportedSizes() []string {
	return []string{
		"256x256",
		"512x512",
		"1024x1024",
		"1024x1536",
		"1536x1024",
		"1792x1024",
		"1024x1792",
	}
}

// buildSet creates a map for O(1) lookup.
func buildSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
