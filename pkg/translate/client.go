// Package translate wraps the tencentcloud text translation API for the
// optional bilingual lyrics feature.
package translate

import (
	"github.com/rs/zerolog/log"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/profile"
	"github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/common/regions"
	tmt "github.com/tencentcloud/tencentcloud-sdk-go/tencentcloud/tmt/v20180321"
)

var logger = log.With().Str("component", "translate").Logger()

// Translator translates lyric lines.
type Translator interface {
	TranslateText(text string) string
}

type tencentTranslator struct {
	tmtClient *tmt.Client
}

// NewClient creates a translator backed by the tencentcloud tmt service.
func NewClient(secretID, secretKey string) (Translator, error) {
	credential := common.NewCredential(secretID, secretKey)

	cpf := profile.NewClientProfile()
	cpf.HttpProfile.ReqTimeout = 10 // seconds

	tmtClient, err := tmt.NewClient(credential, regions.Guangzhou, cpf)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create tmt client")
		return nil, err
	}

	return &tencentTranslator{tmtClient: tmtClient}, nil
}

// TranslateText detects the source language and translates zh<->en. Any
// failure returns "" so callers can keep the original line untouched.
func (t *tencentTranslator) TranslateText(text string) string {
	id := int64(0)

	languageRequest := tmt.NewLanguageDetectRequest()
	languageRequest.Text = &text
	languageRequest.ProjectId = &id
	languageResponse, err := t.tmtClient.LanguageDetect(languageRequest)
	if err != nil {
		logger.Error().Err(err).Msg("language detection failed")
		return ""
	}
	lang := *languageResponse.Response.Lang

	target := "zh"
	if lang == "zh" {
		target = "en"
	}

	request := tmt.NewTextTranslateRequest()
	request.Source = &lang
	request.SourceText = &text
	request.Target = &target
	request.ProjectId = &id
	response, err := t.tmtClient.TextTranslate(request)
	if err != nil {
		logger.Error().Err(err).Msg("translation request failed")
		return ""
	}

	return *response.Response.TargetText
}
