package sentiment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

// EndpointInvoker is the part of the SageMaker runtime client the backend
// uses.
type EndpointInvoker interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerBackend calls a Hugging Face text-classification model deployed as
// a SageMaker endpoint.
type SageMakerBackend struct {
	client   EndpointInvoker
	endpoint string
}

func NewSageMakerBackend(client EndpointInvoker, endpoint string) *SageMakerBackend {
	return &SageMakerBackend{client: client, endpoint: endpoint}
}

func (b *SageMakerBackend) Name() string {
	return "sagemaker"
}

func (b *SageMakerBackend) Predict(ctx context.Context, text string) (Prediction, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to marshal sagemaker payload: %w", err)
	}

	output, err := b.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(b.endpoint),
		Body:         payload,
		ContentType:  aws.String("application/json"),
		Accept:       aws.String("application/json"),
	})
	if err != nil {
		return Prediction{}, err
	}

	if output == nil {
		return Prediction{}, fmt.Errorf("received nil response from endpoint")
	}

	return parsePrediction(output.Body)
}
