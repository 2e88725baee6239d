package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/lumahq/luma/internal/config"
	"github.com/lumahq/luma/internal/errors"
)

// OpenAI implements Summarizer against the OpenAI Responses API with
// structured output.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds the backend from config. The API key is read from
// the environment variable named by cfg.APIKeyEnv; a missing key is an
// auth-stage error surfaced before any network call.
func NewOpenAI(cfg *config.Config) (*OpenAI, error) {
	key := cfg.APIKey()
	if key == "" {
		return nil, errors.NewAuth(fmt.Sprintf("no API key in $%s", cfg.APIKeyEnv))
	}
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.SummarizerBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.SummarizerBaseURL))
	}
	client := openai.NewClient(opts...)
	return &OpenAI{client: &client, model: cfg.SummarizerModel}, nil
}

type narrativeResponse struct {
	Narrative string `json:"narrative" jsonschema_description:"Warm, concise narrative for the period, 2-4 sentences"`
	Headline  string `json:"headline" jsonschema_description:"Optional short headline for the narrative"`
}

type phraseResponse struct {
	Phrase    string `json:"phrase" jsonschema_description:"A short phrase (3-6 words) capturing the month's emotional arc"`
	Reasoning string `json:"reasoning" jsonschema_description:"One or two sentences explaining the phrase"`
}

var narrativeSchema = generateSchema[narrativeResponse]()
var phraseSchema = generateSchema[phraseResponse]()

const narrativeInstructions = `You write short, warm reflections on a person's mood journal.
You will receive a JSON payload with a period label, a tone style, and a list of captured moments (mood label, optional note, timestamp, tags, time-of-day hints).
Write a narrative of 2-4 sentences in the requested tone. Speak directly to the journaler ("you"). Ground every statement in the provided moments; never invent events. Do not mention JSON, data, or that you are an AI.`

const phraseInstructions = `You distill a month of mood-journal entries into a single short phrase.
You will receive a JSON payload with a month label, a tone style, and the month's captured moments.
Return a phrase of 3-6 words that captures the month's emotional arc, plus one or two sentences of reasoning grounded in the moments. Never invent events.`

// Narrative generates a free-form period narrative.
func (o *OpenAI) Narrative(ctx context.Context, req NarrativeRequest) (*NarrativeResult, error) {
	if err := ValidateCaptures(req.Captures); err != nil {
		return nil, err
	}
	payload, err := encodePayload(map[string]any{
		"periodLabel": req.PeriodLabel,
		"toneStyle":   req.ToneStyle,
		"captures":    req.Captures,
	})
	if err != nil {
		return nil, err
	}

	resp, err := o.call(ctx, narrativeInstructions, payload, "PeriodNarrative", narrativeSchema)
	if err != nil {
		return nil, err
	}

	var out narrativeResponse
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return nil, errors.NewParse("malformed narrative response").WithRequestID(resp.ID)
	}
	text := strings.TrimSpace(out.Narrative)
	if text == "" {
		return nil, errors.NewExtract("narrative missing from response").WithRequestID(resp.ID)
	}
	return &NarrativeResult{Text: text, RequestID: resp.ID}, nil
}

// MonthlyPhrase generates the monthly phrase and reasoning pair.
func (o *OpenAI) MonthlyPhrase(ctx context.Context, req PhraseRequest) (*PhraseResult, error) {
	if err := ValidateCaptures(req.Captures); err != nil {
		return nil, err
	}
	payload, err := encodePayload(map[string]any{
		"monthLabel": req.MonthLabel,
		"toneStyle":  req.ToneStyle,
		"captures":   req.Captures,
	})
	if err != nil {
		return nil, err
	}

	resp, err := o.call(ctx, phraseInstructions, payload, "MonthlyPhrase", phraseSchema)
	if err != nil {
		return nil, err
	}

	var out phraseResponse
	if err := json.Unmarshal([]byte(resp.OutputText()), &out); err != nil {
		return nil, errors.NewParse("malformed phrase response").WithRequestID(resp.ID)
	}
	phrase := strings.TrimSpace(out.Phrase)
	if phrase == "" {
		return nil, errors.NewExtract("phrase missing from response").WithRequestID(resp.ID)
	}
	return &PhraseResult{
		Phrase:    phrase,
		Reasoning: strings.TrimSpace(out.Reasoning),
		RequestID: resp.ID,
	}, nil
}

func (o *OpenAI) call(ctx context.Context, instructions, input, schemaName string, schema map[string]any) (*responses.Response, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   schemaName,
			Schema: schema,
			Strict: openai.Bool(true),
			Type:   "json_schema",
		},
	}
	params := responses.ResponseNewParams{
		Model:           o.model,
		MaxOutputTokens: openai.Int(600),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(input, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := callWithRetry(ctx, o.client, params)
	if err != nil {
		return nil, classify(err)
	}
	return resp, nil
}

func encodePayload(v map[string]any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", errors.NewValidate("could not encode capture payload")
	}
	return string(b), nil
}

func callWithRetry(ctx context.Context, client *openai.Client, params responses.ResponseNewParams) (*responses.Response, error) {
	const maxRetries = 3
	rateLimitWaitTimes := []time.Duration{65 * time.Second, 100 * time.Second, 135 * time.Second}
	serverErrorWaitTimes := []time.Duration{5 * time.Second, 30 * time.Second, 60 * time.Second}

	for attempt := 0; attempt < maxRetries; attempt++ {
		resp, err := client.Responses.New(ctx, params)
		if err != nil {
			if isRateLimitError(err) {
				if attempt < maxRetries-1 {
					time.Sleep(rateLimitWaitTimes[attempt])
					continue
				}
			} else if isServerError(err) {
				if attempt < maxRetries-1 {
					time.Sleep(serverErrorWaitTimes[attempt])
					continue
				}
			}
			return nil, err
		}
		return resp, nil
	}
	return nil, fmt.Errorf("failed after %d attempts", maxRetries)
}

// classify maps a transport-level failure onto the stage taxonomy.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case isAuthError(err):
		return errors.NewAuth(err.Error())
	case isRateLimitError(err), isServerError(err):
		return errors.NewModel(err.Error())
	case strings.Contains(msg, "context deadline") ||
		strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "connection") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout"):
		return errors.NewModel(err.Error())
	default:
		return errors.NewUnknown(err)
	}
}

func isAuthError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key") ||
		strings.Contains(msg, "incorrect api key")
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

func isServerError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "500") ||
		strings.Contains(msg, "502") ||
		strings.Contains(msg, "503") ||
		strings.Contains(msg, "internal server error") ||
		strings.Contains(msg, "server_error")
}
