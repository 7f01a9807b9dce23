package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/smazurov/subjectlink/internal/config"
	"github.com/smazurov/subjectlink/internal/scene"
	"github.com/smazurov/subjectlink/internal/streamobject"
	"github.com/spf13/cobra"
)

// CreateSubjectsCmd creates the subjects command.
func CreateSubjectsCmd() *cobra.Command {
	var subjectsFile string
	var sceneFile string

	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "Validate and list configured subjects",
		Long: `Loads the subjects file, checks every entry and prints the subjects it defines. ` +
			`With --scene, targets are also checked against a scene file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := config.LoadSubjects(subjectsFile)
			if err != nil {
				return err
			}

			var sc *scene.Scene
			if sceneFile != "" {
				f, err := scene.LoadFile(sceneFile)
				if err != nil {
					return err
				}
				sc = scene.New()
				if _, err := f.Apply(sc); err != nil {
					return err
				}
			}

			printSubjects(cmd.OutOrStdout(), specs, sc)

			if err := config.ValidateSubjects(specs); err != nil {
				return fmt.Errorf("%s is invalid: %w", subjectsFile, err)
			}
			if err := checkTargets(specs, sc); err != nil {
				return fmt.Errorf("%s does not match %s: %w", subjectsFile, sceneFile, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&subjectsFile, "subjects-file", "subjects.toml", "Subject definitions file")
	cmd.Flags().StringVar(&sceneFile, "scene", "", "Scene file to check targets against")

	return cmd
}

func printSubjects(out io.Writer, specs []streamobject.Spec, sc *scene.Scene) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SUBJECT\tKIND\tTARGET\tMODE\tACTIVE\tANIMATABLE")
	for _, spec := range specs {
		target := spec.Target
		if sc != nil && target != "" && !targetExists(spec, sc) {
			target += " (missing)"
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%t\n",
			spec.SubjectName(), spec.Kind, target, spec.Mode, spec.IsActive(), spec.SendAnimatable)
	}
	_ = tw.Flush()
}

func targetExists(spec streamobject.Spec, sc *scene.Scene) bool {
	switch spec.Kind {
	case streamobject.KindCamera:
		return sc.Camera(spec.Target) != nil
	case streamobject.KindModel:
		return sc.Model(spec.Target) != nil
	default:
		return true
	}
}

func checkTargets(specs []streamobject.Spec, sc *scene.Scene) error {
	if sc == nil {
		return nil
	}
	for i, spec := range specs {
		if spec.Target != "" && !targetExists(spec, sc) {
			return fmt.Errorf("subjects[%d]: %s %q not found in scene", i, spec.Kind, spec.Target)
		}
	}
	return nil
}
