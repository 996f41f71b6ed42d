package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/BrunoCord1/Microcontroladores-II/src/analysis"
	"github.com/BrunoCord1/Microcontroladores-II/src/charts"
	"github.com/BrunoCord1/Microcontroladores-II/src/datalog"
	"github.com/BrunoCord1/Microcontroladores-II/src/display"
	"github.com/BrunoCord1/Microcontroladores-II/src/monitor"
	"github.com/BrunoCord1/Microcontroladores-II/src/sensor"
)

type uiState struct {
	app      fyne.App
	window   fyne.Window
	filePath string
	logbook  *datalog.Log
	live     *display.State

	// chart window, reused while open
	chartWindow fyne.Window
	chartImage  *canvas.Image

	// replaced in tests
	launch func(path string) error
}

func newUIState(filePath string, logbook *datalog.Log, live *display.State) *uiState {
	return buildUI(app.NewWithID("com.sensores.monitor"), filePath, logbook, live)
}

func buildUI(a fyne.App, filePath string, logbook *datalog.Log, live *display.State) *uiState {
	w := a.NewWindow("Monitor de Sensores")
	state := &uiState{
		app:      a,
		window:   w,
		filePath: filePath,
		logbook:  logbook,
		live:     live,
		launch:   openLogFile,
	}
	w.SetContent(buildContent(state))
	w.Resize(fyne.NewSize(500, 400))
	w.SetFixedSize(true)
	w.SetMaster()
	return state
}

// buildContent lays out the heading, the five live values and the three buttons.
func buildContent(state *uiState) fyne.CanvasObject {
	title := widget.NewLabelWithStyle("Monitor en Tiempo Real", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.SizeName = theme.SizeNameSubHeadingText

	rows := container.NewGridWithColumns(2)
	for _, metric := range sensor.Metrics {
		name := widget.NewLabelWithStyle(metric.Label()+":", fyne.TextAlignTrailing, fyne.TextStyle{})
		value := widget.NewLabelWithData(state.live.Binding(metric))
		value.Importance = widget.HighImportance
		rows.Add(name)
		rows.Add(value)
	}

	openBtn := widget.NewButton("Abrir Excel", func() { openLog(state) })
	chartsBtn := widget.NewButton("Ver Gráficas", func() { showCharts(state) })
	exitBtn := widget.NewButton("Salir", func() { state.window.Close() })

	buttons := container.NewVBox(
		container.NewGridWithColumns(2, openBtn, chartsBtn),
		container.NewCenter(exitBtn),
	)
	return container.NewVBox(title, widget.NewSeparator(), rows, layoutSpacer(), buttons)
}

func layoutSpacer() fyne.CanvasObject {
	r := canvas.NewRectangle(color.Transparent)
	r.SetMinSize(fyne.NewSize(1, 20))
	return r
}

// openLog hands the log file to the OS default application.
func openLog(state *uiState) {
	if err := state.launch(state.filePath); err != nil {
		monitor.Errorf("[open] %v", err)
		dialog.ShowError(fmt.Errorf("No se pudo abrir el archivo:\n%w", err), state.window)
	}
}

// showCharts reloads the whole log from disk and shows the chart grid in its own window.
func showCharts(state *uiState) {
	defer monitor.TimeTrack(time.Now(), "charts")
	img, err := renderLogCharts(state.logbook)
	if err != nil {
		monitor.Errorf("[charts] %v", err)
		dialog.ShowError(fmt.Errorf("No se pudieron generar las gráficas:\n%w", err), state.window)
		return
	}
	if state.chartWindow != nil {
		state.chartImage.Image = img
		state.chartImage.Refresh()
		state.chartWindow.RequestFocus()
		return
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	ci.SetMinSize(fyne.NewSize(900, 600))
	cw := state.app.NewWindow(charts.DefaultTitle)
	cw.SetContent(ci)
	cw.Resize(fyne.NewSize(1200, 800))
	cw.SetOnClosed(func() {
		state.chartWindow = nil
		state.chartImage = nil
	})
	state.chartWindow = cw
	state.chartImage = ci
	cw.Show()
}

// renderLogCharts is the shared load and render path of the chart window and --charts-out.
func renderLogCharts(logbook *datalog.Log) (image.Image, error) {
	rows, err := logbook.Load()
	if err != nil {
		return nil, err
	}
	monitor.Debugf("[charts] %d rows from %s", len(rows), logbook.Path)
	return charts.RenderGrid(analysis.BuildSeries(rows), charts.Options{})
}
