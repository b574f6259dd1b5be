package gemini

// extractionPrompt instructs the model to answer only with the five-key
// JSON contract, using NO_ENCONTRADO for missing fields and SÍ/NO for the
// charger flag.
const extractionPrompt = `
Analiza esta imagen de un equipo electrónico (laptop, computadora, tablet, etc.) y extrae la siguiente información si está visible:

1. NOMBRE DEL CLIENTE: Busca cualquier etiqueta, sticker, papel o texto que indique el nombre del propietario
2. NÚMERO DE WHATSAPP: Busca números de teléfono con formato +57, +1, etc. o números de 10 dígitos
3. CARGADOR: Determina si hay un cargador visible en la imagen (cable de alimentación, adaptador de corriente)
4. TIPO DE EQUIPO: Identifica qué tipo de dispositivo es (laptop, PC, tablet, etc.)
5. MARCA Y MODELO: Si es posible identificar la marca y modelo del equipo

IMPORTANTE:
- Si no puedes encontrar información específica, responde "NO_ENCONTRADO"
- Para el cargador, responde solo "SÍ" o "NO"
- Para números de WhatsApp, incluye el código de país si está visible

Responde ÚNICAMENTE en el siguiente formato JSON:
{
  "nombreCliente": "nombre encontrado o NO_ENCONTRADO",
  "whatsappNumber": "número con código de país o NO_ENCONTRADO",
  "tieneCargador": "SÍ o NO",
  "tipoEquipo": "tipo de dispositivo identificado",
  "marcaModelo": "marca y modelo si es identificable o NO_ENCONTRADO"
}
`

const transcriptionPrompt = `
Transcribe el siguiente audio en español y extrae información relevante sobre problemas técnicos de equipos electrónicos.

INSTRUCCIONES:
1. Transcribe exactamente lo que se dice en el audio
2. Si se mencionan problemas técnicos, organiza la información de manera clara
3. Corrige errores gramaticales menores pero mantén el contenido original
4. Si el audio no es claro, indica qué partes no se pudieron transcribir

FORMATO DE RESPUESTA:
Devuelve solo el texto transcrito sin formato adicional.
`
