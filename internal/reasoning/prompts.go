package reasoning

import (
	"fmt"
	"strings"
)

const verifySystem = `You are an image tagging assistant. You examine images and respond only in the exact format requested.`

const verifyTemplate = `These tags were detected in the image by an automated tagger:

%s

Verify each tag against what is actually visible. Then add any clearly visible tags the tagger missed, using lowercase underscore_delimited names. Finally write a natural-language description of the image. The description must be prose, not a list of tags.

Respond in exactly this format:
Tags: tag_one, tag_two, tag_three
Summary: <description>`

const describeTemplate = `Look at the image and list the tags that describe it, using lowercase underscore_delimited names, then write one short sentence summarizing the image.

Respond in exactly this format:
Tags: tag_one, tag_two, tag_three
Summary: <short summary>`

const copyrightTemplate = `For each of these character names, name the series or copyright the character belongs to:

%s

Respond with a strict JSON array of lowercase series name strings and nothing else. Example: ["series_one", "series_two"]`

// verifyPrompt builds the joint verification and captioning prompt. With no
// existing tags the model is asked only for a tag list and short summary.
func verifyPrompt(existing []string) string {
	if len(existing) == 0 {
		return describeTemplate
	}
	return fmt.Sprintf(verifyTemplate, strings.Join(existing, ", "))
}

// copyrightPrompt builds the batched series resolution prompt.
func copyrightPrompt(names []string) string {
	return fmt.Sprintf(copyrightTemplate, strings.Join(names, "\n"))
}
