package context

import (
	"fmt"

	"github.com/manifoldco/promptui"
)

// CollectInteractive runs an interactive prompt session to gather the
// business context that gets spliced into every Writer agent prompt this
// run. All questions are optional; pressing Enter skips them.
func CollectInteractive() (*BusinessContext, error) {
	fmt.Println("Provide optional context the Writer agent should keep in mind when drafting docstrings.")
	fmt.Println("Press Enter to skip any question.")
	fmt.Println()

	ctx := &BusinessContext{}

	description, err := askOptional("What does this codebase do, in a sentence or two?")
	if err != nil {
		return nil, fmt.Errorf("description prompt: %w", err)
	}
	ctx.Description = description

	targetUsers, err := askOptional("Who reads the generated docstrings — library consumers, other team members, future maintainers?")
	if err != nil {
		return nil, fmt.Errorf("target users prompt: %w", err)
	}
	ctx.TargetUsers = targetUsers

	keyConcepts, err := askOptional("What domain terms or concepts should docstrings use consistently (e.g. names for core entities)?")
	if err != nil {
		return nil, fmt.Errorf("key concepts prompt: %w", err)
	}
	ctx.KeyConcepts = keyConcepts

	archDecisions, err := askOptional("Any architectural decisions the Writer should reference when it documents why code is shaped the way it is?")
	if err != nil {
		return nil, fmt.Errorf("arch decisions prompt: %w", err)
	}
	ctx.ArchDecisions = archDecisions

	additionalInfo, err := askOptional("Anything else that should steer how components in this repository get documented?")
	if err != nil {
		return nil, fmt.Errorf("additional info prompt: %w", err)
	}
	ctx.AdditionalInfo = additionalInfo

	return ctx, nil
}

// askOptional displays a prompt and returns the user's input. An empty string
// is returned if the user presses Enter without typing anything.
func askOptional(label string) (string, error) {
	p := promptui.Prompt{
		Label:     label,
		Default:   "",
		AllowEdit: true,
	}
	result, err := p.Run()
	if err != nil {
		return "", err
	}
	return result, nil
}
