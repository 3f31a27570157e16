// Package reviews mines consumer drug-review text for adverse-event
// mentions and maps them onto MedDRA preferred terms.
package reviews

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultKeywords is the built-in adverse-event lexicon searched for in
// review text, in match-priority order.
var defaultKeywords = []string{
	"headache", "nausea", "dizziness", "rash", "fatigue", "insomnia",
	"diarrhea", "constipation", "vomiting", "pain", "cough", "fever",
	"drowsy", "sleepy", "tired", "weak", "dizzy", "lightheaded",
	"stomach", "belly", "abdominal", "cramps", "bloating", "gas",
	"dry mouth", "thirsty", "blurred vision", "blurry", "vision",
	"weight gain", "weight loss", "appetite", "hungry", "swelling",
	"swollen", "edema", "shortness of breath", "breathing", "chest",
	"palpitations", "racing heart", "irregular heartbeat", "anxiety",
	"depression", "mood", "irritable", "angry", "sad", "crying",
	"skin", "itchy", "itch", "hives", "allergic", "reaction",
	"memory", "confusion", "brain fog", "concentration", "focus",
	"muscle", "joint", "ache", "sore", "stiff", "numbness", "tingling",
}

// defaultVocab maps lexicon keywords to MedDRA preferred terms.
var defaultVocab = map[string]string{
	"headache":            "HEADACHE",
	"nausea":              "NAUSEA",
	"dizziness":           "DIZZINESS",
	"dizzy":               "DIZZINESS",
	"lightheaded":         "DIZZINESS",
	"rash":                "RASH",
	"fatigue":             "FATIGUE",
	"tired":               "FATIGUE",
	"weak":                "FATIGUE",
	"insomnia":            "INSOMNIA",
	"sleepy":              "SOMNOLENCE",
	"drowsy":              "SOMNOLENCE",
	"diarrhea":            "DIARRHOEA",
	"constipation":        "CONSTIPATION",
	"vomiting":            "VOMITING",
	"pain":                "PAIN",
	"cough":               "COUGH",
	"fever":               "PYREXIA",
	"stomach":             "ABDOMINAL PAIN",
	"belly":               "ABDOMINAL PAIN",
	"abdominal":           "ABDOMINAL PAIN",
	"cramps":              "ABDOMINAL PAIN",
	"bloating":            "ABDOMINAL DISTENSION",
	"gas":                 "FLATULENCE",
	"dry mouth":           "DRY MOUTH",
	"thirsty":             "THIRST",
	"blurred vision":      "VISION BLURRED",
	"blurry":              "VISION BLURRED",
	"vision":              "VISUAL IMPAIRMENT",
	"weight gain":         "WEIGHT INCREASED",
	"weight loss":         "WEIGHT DECREASED",
	"appetite":            "APPETITE DISORDER",
	"hungry":              "INCREASED APPETITE",
	"swelling":            "SWELLING",
	"swollen":             "SWELLING",
	"edema":               "OEDEMA",
	"shortness of breath": "DYSPNOEA",
	"breathing":           "DYSPNOEA",
	"chest":               "CHEST PAIN",
	"palpitations":        "PALPITATIONS",
	"racing heart":        "TACHYCARDIA",
	"irregular heartbeat": "ARRHYTHMIA",
	"anxiety":             "ANXIETY",
	"depression":          "DEPRESSION",
	"mood":                "MOOD ALTERED",
	"irritable":           "IRRITABILITY",
	"angry":               "ANGER",
	"sad":                 "DEPRESSED MOOD",
	"crying":              "CRYING",
	"skin":                "SKIN DISORDER",
	"itchy":               "PRURITUS",
	"itch":                "PRURITUS",
	"hives":               "URTICARIA",
	"allergic":            "ALLERGY",
	"reaction":            "DRUG HYPERSENSITIVITY",
	"memory":              "MEMORY IMPAIRMENT",
	"confusion":           "CONFUSIONAL STATE",
	"brain fog":           "COGNITIVE DISORDER",
	"concentration":       "DISTURBANCE IN ATTENTION",
	"focus":               "DISTURBANCE IN ATTENTION",
	"muscle":              "MYALGIA",
	"joint":               "ARTHRALGIA",
	"ache":                "PAIN",
	"sore":                "PAIN",
	"stiff":               "MUSCLE RIGIDITY",
	"numbness":            "HYPOAESTHESIA",
	"tingling":            "PARAESTHESIA",
}

// Vocab bundles the keyword lexicon with its preferred-term mapping.
type Vocab struct {
	Keywords []string          `yaml:"keywords"`
	Terms    map[string]string `yaml:"terms"`
}

// DefaultVocab returns the built-in lexicon.
func DefaultVocab() *Vocab {
	return &Vocab{Keywords: defaultKeywords, Terms: defaultVocab}
}

// LoadVocab reads a YAML lexicon override. Sections left empty fall back
// to the built-in values, so a file can replace just the keywords.
func LoadVocab(path string) (*Vocab, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocab file: %w", err)
	}
	var v Vocab
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse vocab file %s: %w", path, err)
	}
	if len(v.Keywords) == 0 {
		v.Keywords = defaultKeywords
	}
	if len(v.Terms) == 0 {
		v.Terms = defaultVocab
	}
	return &v, nil
}

// PreferredTerm maps a matched keyword to its MedDRA preferred term,
// falling back to the uppercased keyword for lexicon entries without a
// mapping.
func (v *Vocab) PreferredTerm(keyword string) string {
	if pt, ok := v.Terms[keyword]; ok {
		return pt
	}
	return upper(keyword)
}
