package ai

import (
	"context"
	"log"
	"os"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

var client *openai.Client
var isInitialized bool

// Initialize sets up the Azure OpenAI client from environment variables.
// When the credentials are absent the service stays disabled and the
// AI report endpoint reports itself unavailable.
func Initialize() {
	endpoint := os.Getenv("AZURE_OPENAI_ENDPOINT")
	apiKey := os.Getenv("AZURE_OPENAI_API_KEY")

	if endpoint == "" || apiKey == "" {
		log.Println("AI service disabled - Azure OpenAI credentials not provided")
		isInitialized = false
		return
	}

	clientValue := openai.NewClient(
		option.WithBaseURL(endpoint),
		option.WithAPIKey(apiKey),
	)
	client = &clientValue

	isInitialized = true
	log.Println("AI service initialized with Azure OpenAI")
}

// IsEnabled reports whether the client was successfully configured.
func IsEnabled() bool {
	return isInitialized && client != nil
}

func generateCompletion(ctx context.Context, systemMessage, userMessage string) (string, error) {
	if !IsEnabled() {
		return "", &AIError{Message: "AI service is not enabled"}
	}

	deploymentName := os.Getenv("AZURE_OPENAI_DEPLOYMENT_NAME")
	if deploymentName == "" {
		deploymentName = "gpt-35-turbo"
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(deploymentName),
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemMessage),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(userMessage),
					},
				},
			},
		},
		MaxTokens:   openai.Int(1500),
		Temperature: openai.Float(0.7),
	})

	if err != nil {
		log.Printf("AI API Error: %v", err)
		return "", &AIError{Message: "Failed to generate AI response", Cause: err}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", &AIError{Message: "AI returned empty response"}
	}

	return resp.Choices[0].Message.Content, nil
}

// AIError represents an AI service error.
type AIError struct {
	Message string
	Cause   error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}
