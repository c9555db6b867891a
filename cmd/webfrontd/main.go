// Command webfrontd hosts a WebFront server: it serves a document root
// over HTTP, upgrades browser connections to WebLink sessions, and
// wires up a "print" callable and a small injected script exactly the
// way original_source/src/HelloWorld.cpp demonstrates the C++ library.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/webfrontgo/webfront/httpwire"
	"github.com/webfrontgo/webfront/vfs"
	"github.com/webfrontgo/webfront/webfront"
	"github.com/webfrontgo/webfront/wflog"
)

func main() {
	addr := flag.String("addr", ":9002", "listen address")
	docRoot := flag.String("docroot", "", "native filesystem document root (defaults to the built-in index.html/favicon.ico)")
	debug := flag.Bool("debug", false, "enable debug-level logging")
	allowedOrigin := flag.String("allowed-origin", "", "if set, reject upgrades whose Origin header doesn't match this value")
	flag.Parse()

	if *debug {
		wflog.SetLevel(wflog.LevelDebug)
	} else {
		wflog.SetLevel(wflog.LevelInfo)
	}

	var fs vfs.FileSystem = vfs.NewGeneratedFS()
	if *docRoot != "" {
		fs = vfs.NewMulti(vfs.NewNativeFS(*docRoot), vfs.NewGeneratedFS())
	}

	opts := []webfront.Option{
		webfront.WithFileSystem(fs),
		webfront.OnUIStarted(onUIStarted),
	}
	if *allowedOrigin != "" {
		opts = append(opts, webfront.WithCheckOrigin(func(req *httpwire.Request) bool {
			origin, _ := req.Header("Origin")
			return strings.EqualFold(origin, *allowedOrigin)
		}))
	}
	srv := webfront.New(opts...)

	webfront.RegisterFunc1[string](srv.Callables(), "print", func(text string) {
		fmt.Println(text)
	})

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		wflog.Info("webfrontd: shutting down")
		_ = srv.Close()
	}()

	wflog.Infof("webfrontd: launched from %s", mustGetwd())
	if err := srv.ListenAndServe(*addr); err != nil {
		wflog.Errorf("webfrontd: %v", err)
		os.Exit(1)
	}
}

// onUIStarted mirrors HelloWorld.cpp's onUIStarted lambda: it injects a
// small script defining two JS functions, one of which calls back into
// the "print" callable, then invokes both from the host side.
func onUIStarted(ui webfront.UI) {
	wflog.Infof("webfrontd: weblink %d started", ui.ID())

	err := ui.AddScript(`
var addText = function(text, num) {
  let print = webFront.cppFunction('print');
  print(text + ' of ' + num);
  return num + 1;
}

var testFunc = function(text) {
  let bigText = 'bigText : ' + text + text + ' - ';
  bigText += bigText + bigText;
  let cppTest = webFront.cppFunction('cppTest');
  cppTest(text, bigText, bigText.length);
}
`)
	if err != nil {
		wflog.Errorf("webfrontd: AddScript: %v", err)
		return
	}

	addText := ui.JSFunction("addText")
	if err := addText("Hello World", 2022.0); err != nil {
		wflog.Errorf("webfrontd: jsFunction(addText): %v", err)
	}

	testFunc := ui.JSFunction("testFunc")
	if err := testFunc("Texte de test suffisament long pour changer de format"); err != nil {
		wflog.Errorf("webfrontd: jsFunction(testFunc): %v", err)
	}
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
