package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue       = "true"
	toggleFalseCanonicalValue      = "false"
	toggleValueTypeConstant        = "bool"
	toggleParseErrorTemplate       = "invalid toggle value %q"
	toggleTruePlaceholderConstant  = "<YES|no>"
	toggleFalsePlaceholderConstant = "<yes|NO>"
	toggleUsageTemplateConstant    = "`%s` %s"
	longFlagPrefixConstant         = "--"
	shortFlagPrefixConstant        = "-"
	flagValueSeparatorConstant     = "="
	argumentTerminatorConstant     = "--"
)

var (
	toggleLiterals = map[string]bool{
		"true": true, "yes": true, "y": true, "on": true, "1": true,
		"false": false, "no": false, "n": false, "off": false, "0": false,
	}

	toggleRegistryMutex sync.RWMutex
	toggleFlagTokens    = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that accepts yes/no style values.
// A bare flag means true; "--flag no" and "--flag=no" both mean false once arguments pass through NormalizeToggleArguments.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	value := &toggleFlagValue{currentValue: defaultValue, target: target}
	if target != nil {
		*target = defaultValue
	}

	flag := flagSet.VarPF(value, name, shorthand, fmt.Sprintf(toggleUsageTemplateConstant, placeholder, strings.TrimSpace(usage)))
	flag.NoOptDefVal = toggleTrueCanonicalValue

	toggleRegistryMutex.Lock()
	defer toggleRegistryMutex.Unlock()
	toggleFlagTokens[longFlagPrefixConstant+name] = struct{}{}
	if len(shorthand) > 0 {
		toggleFlagTokens[shortFlagPrefixConstant+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments joins a registered toggle flag with a following yes/no literal ("--yes no" becomes "--yes=no").
// Any other following argument is left alone so positional arguments after a bare toggle survive.
func NormalizeToggleArguments(arguments []string) []string {
	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		current := arguments[argumentIndex]
		if current == argumentTerminatorConstant {
			return append(normalized, arguments[argumentIndex:]...)
		}
		if isToggleToken(current) && argumentIndex+1 < len(arguments) {
			if _, isLiteral := toggleLiterals[strings.ToLower(arguments[argumentIndex+1])]; isLiteral {
				normalized = append(normalized, current+flagValueSeparatorConstant+arguments[argumentIndex+1])
				argumentIndex++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func (value *toggleFlagValue) Set(rawValue string) error {
	trimmedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueCanonicalValue
	}
	parsedValue, isLiteral := toggleLiterals[trimmedValue]
	if !isLiteral {
		return fmt.Errorf(toggleParseErrorTemplate, rawValue)
	}

	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
	return nil
}

func (value *toggleFlagValue) String() string {
	if value != nil && value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

func (value *toggleFlagValue) Type() string {
	return toggleValueTypeConstant
}

func isToggleToken(argument string) bool {
	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := toggleFlagTokens[argument]
	return registered
}
