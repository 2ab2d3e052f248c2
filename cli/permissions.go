package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"maxloyalty.com/backoffice/permissions"
)

func permissionsCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Show and edit the route permissions of a user",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show <userID>",
			Short: "Print the route tree of a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				tree, _, err := loadTree(cmd, app, args[0])
				if err != nil {
					return err
				}
				return printTree(app.Out, tree)
			},
		},
		&cobra.Command{
			Use:   "toggle <userID> <routeID>...",
			Short: "Flip routes in order and save the result",
			Long: `Routes are toggled in the order given. A child can only be granted
while its parent is, so grant the parent first. Revoking a parent revokes
its children.`,
			Args: cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				tree, userID, err := loadTree(cmd, app, args[0])
				if err != nil {
					return err
				}
				for _, arg := range args[1:] {
					id, err := idArg(arg)
					if err != nil {
						return err
					}
					if _, err := tree.Toggle(id); err != nil {
						return err
					}
				}
				if !tree.Dirty() {
					fmt.Fprintln(app.Out, "Sin cambios")
					return nil
				}
				if err := tree.Save(cmd.Context(), app.Client.Permissions, userID); err != nil {
					return err
				}
				return printTree(app.Out, tree)
			},
		},
	)
	return cmd
}

func loadTree(cmd *cobra.Command, app *App, arg string) (*permissions.Tree, int, error) {
	userID, err := strconv.Atoi(arg)
	if err != nil || userID <= 0 {
		return nil, 0, fmt.Errorf("invalid user id %q", arg)
	}
	routes, err := app.Client.Permissions.Load(cmd.Context(), userID)
	if err != nil {
		return nil, 0, err
	}
	tree := permissions.NewTree(routes,
		permissions.WithNotifier(app.Notifier),
		permissions.WithLogger(app.Log),
	)
	return tree, userID, nil
}

func printTree(w io.Writer, tree *permissions.Tree) error {
	for _, root := range tree.Roots() {
		if err := printRoute(w, root, 0); err != nil {
			return err
		}
		for _, child := range tree.Children(root.ID) {
			if err := printRoute(w, child, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

func printRoute(w io.Writer, r permissions.Route, depth int) error {
	mark := "[ ]"
	if r.Permitted {
		mark = "[x]"
	}
	_, err := fmt.Fprintf(w, "%*s%s %2d %s (%s)\n", depth*4, "", mark, r.ID, r.Name, r.Path)
	return err
}
