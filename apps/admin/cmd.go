package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/SandyWyper/Know-How/core"
	"github.com/SandyWyper/Know-How/core/account"
	"github.com/SandyWyper/Know-How/core/content"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db         *sql.DB
	validate   *validator.Validate
	accSvc     account.ServiceInterface
	contentSvc content.ServiceInterface
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) on the embedded migrations")
	fmt.Println("  createuser -username USERNAME [-email EMAIL] [-staff|-superuser] - create an account")
	fmt.Println("  resetpassword -username USERNAME|EMAIL - reset an account's password")
	fmt.Println("  addpage -title TITLE [-excerpt TEXT] [-content TEXT] [-publish] - create a static page")
	fmt.Println("  addnav -name NAME [-pages SLUG,SLUG,...] - create a navigation list")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	createUserCmd := flag.NewFlagSet("createuser", flag.ExitOnError)
	createUserUname := createUserCmd.String("username", "", "The account's username. The password will be prompted next.")
	createUserEmail := createUserCmd.String("email", "", "The account's email.")
	createUserStaff := createUserCmd.Bool("staff", false, "Give the account the staff role.")
	createUserSuper := createUserCmd.Bool("superuser", false, "Give the account the superuser role.")

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ExitOnError)
	resetPasswordUname := resetPasswordCmd.String("username", "", "The account's username or email. The password will be prompted next.")

	addPageCmd := flag.NewFlagSet("addpage", flag.ExitOnError)
	addPageTitle := addPageCmd.String("title", "", "The page title; its slug derives from it.")
	addPageExcerpt := addPageCmd.String("excerpt", "", "A short summary.")
	addPageContent := addPageCmd.String("content", "", "The page body.")
	addPagePublish := addPageCmd.Bool("publish", false, "Publish the page right away.")

	addNavCmd := flag.NewFlagSet("addnav", flag.ExitOnError)
	addNavName := addNavCmd.String("name", "", "The list name.")
	addNavPages := addNavCmd.String("pages", "", "Comma-separated page slugs, in display order.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "createuser":
		if err := createUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *createUserUname == "" {
			createUserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			createUserCmd.Usage()
			return errHelp
		}
		var roles []string
		switch {
		case *createUserSuper:
			roles = []string{account.RoleSuperuser}
		case *createUserStaff:
			roles = []string{account.RoleStaff}
		}
		return cli.createUser(*createUserUname, *createUserEmail, pwd, roles)

	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordUname == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordUname, pwd)

	case "addpage":
		if err := addPageCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addPageTitle == "" {
			addPageCmd.Usage()
			return errHelp
		}
		status := core.StatusDraft
		if *addPagePublish {
			status = core.StatusPublished
		}
		return cli.addPage(content.NewPage{Title: *addPageTitle, Excerpt: *addPageExcerpt, Content: *addPageContent, Status: status})

	case "addnav":
		if err := addNavCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addNavName == "" {
			addNavCmd.Usage()
			return errHelp
		}
		var slugs []string
		for _, slug := range strings.Split(*addNavPages, ",") {
			if slug = strings.TrimSpace(slug); slug != "" {
				slugs = append(slugs, slug)
			}
		}
		return cli.addNav(content.NewNavigationList{Name: *addNavName, PageSlugs: slugs})

	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

// describe renders err for the terminal, listing validation failures field by field.
func describe(err error, translator ut.Translator) string {
	var lines []string
	switch origErr := pkgerrors.Cause(err).(type) {
	case validator.ValidationErrors:
		for _, vErr := range origErr {
			lines = append(lines, vErr.Field()+": "+vErr.Translate(translator))
		}
	case *core.ValidationError:
		for _, fErr := range origErr.Fields {
			lines = append(lines, fErr.Field+": "+fErr.Error)
		}
	}
	if len(lines) == 0 {
		return err.Error()
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
